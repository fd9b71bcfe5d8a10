package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/notify"
)

func TestCreateReceberRefreshesCache(t *testing.T) {
	dbi := setupTestDB(t)
	f := seedOrder(t, dbi, uuid.New())
	h := NewPagamentoHandler(dbi, notify.New(nil))

	body := fmt.Sprintf(`{"encomenda_id":%q,"valor":15,"forma":"mbway"}`, f.encomenda.ID)
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/pagamentos", jsonBody(body)), "jbento1@gmail.com")
	rr := httptest.NewRecorder()
	h.CreateReceber(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}

	var e models.Encomenda
	if err := dbi.First(&e, "id = ?", f.encomenda.ID).Error; err != nil {
		t.Fatal(err)
	}
	// 10 seeded + 15 new
	if e.ValorPago != 25 {
		t.Fatalf("valor_pago = %v, want 25", e.ValorPago)
	}
}

func TestCreatePagarValidation(t *testing.T) {
	dbi := setupTestDB(t)
	f := seedOrder(t, dbi, uuid.New())
	h := NewPagamentoHandler(dbi, notify.New(nil))

	cases := []string{
		fmt.Sprintf(`{"encomenda_id":%q,"valor":0,"forma":"mbway"}`, f.encomenda.ID),
		fmt.Sprintf(`{"encomenda_id":%q,"valor":10,"forma":"bitcoin"}`, f.encomenda.ID),
		`{"valor":10,"forma":"mbway"}`,
	}
	for _, body := range cases {
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/pagamentos-fornecedor", jsonBody(body)), "jbento1@gmail.com")
		rr := httptest.NewRecorder()
		h.CreatePagar(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestCreatePagarUnknownOrder(t *testing.T) {
	dbi := setupTestDB(t)
	h := NewPagamentoHandler(dbi, notify.New(nil))

	body := fmt.Sprintf(`{"encomenda_id":%q,"valor":10,"forma":"cheque"}`, uuid.New())
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/pagamentos-fornecedor", jsonBody(body)), "jbento1@gmail.com")
	rr := httptest.NewRecorder()
	h.CreatePagar(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestDeleteReceberRefreshesCache(t *testing.T) {
	dbi := setupTestDB(t)
	f := seedOrder(t, dbi, uuid.New())
	h := NewPagamentoHandler(dbi, notify.New(nil))

	var p models.Pagamento
	if err := dbi.First(&p, "encomenda_id = ?", f.encomenda.ID).Error; err != nil {
		t.Fatal(err)
	}
	req := asUser(httptest.NewRequest(http.MethodDelete, "/api/pagamentos/x", nil), "jbento1@gmail.com")
	req.SetPathValue("id", p.ID.String())
	rr := httptest.NewRecorder()
	h.DeleteReceber(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var e models.Encomenda
	if err := dbi.First(&e, "id = ?", f.encomenda.ID).Error; err != nil {
		t.Fatal(err)
	}
	if e.ValorPago != 0 {
		t.Fatalf("valor_pago = %v, want 0", e.ValorPago)
	}
}

func TestListReceberTotals(t *testing.T) {
	dbi := setupTestDB(t)
	f := seedOrder(t, dbi, uuid.New())
	h := NewPagamentoHandler(dbi, notify.New(nil))

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/encomendas/x/pagamentos", nil), "jbento1@gmail.com")
	req.SetPathValue("id", f.encomenda.ID.String())
	rr := httptest.NewRecorder()
	h.ListReceber(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Pagamentos []models.Pagamento `json:"pagamentos"`
		TotalPago  float64            `json:"total_pago"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Pagamentos) != 1 || resp.TotalPago != 10 {
		t.Fatalf("resp = %+v", resp)
	}
}
