package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestReceberLedger(t *testing.T) {
	dbi := setupTestDB(t)
	seedOrder(t, dbi, uuid.New())
	h := NewFinanceiroHandler(dbi)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/financeiro/receber", nil), "jbento1@gmail.com")
	rr := httptest.NewRecorder()
	h.Receber(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Rows       []LedgerRow `json:"rows"`
		TotalSaldo float64     `json:"total_saldo"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("rows = %d", len(resp.Rows))
	}
	row := resp.Rows[0]
	// sale total 28 recomputed from items, 10 paid
	if row.Total != 28 || row.Pago != 10 || row.Saldo != 18 {
		t.Fatalf("row = %+v", row)
	}
	if resp.TotalSaldo != 18 {
		t.Fatalf("total saldo = %v", resp.TotalSaldo)
	}
	if row.SaldoFmt != "18,00 €" {
		t.Fatalf("saldo fmt = %q", row.SaldoFmt)
	}
}

func TestPagarLedgerNegativeBalanceKept(t *testing.T) {
	dbi := setupTestDB(t)
	f := seedOrder(t, dbi, uuid.New())
	h := NewPagamentoHandler(dbi, nil)

	// Overpay the supplier: cost total is 16.
	body := `{"encomenda_id":"` + f.encomenda.ID.String() + `","valor":20,"forma":"transferencia"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/pagamentos-fornecedor", jsonBody(body)), "jbento1@gmail.com")
	rr := httptest.NewRecorder()
	h.CreatePagar(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("pay status = %d body=%s", rr.Code, rr.Body.String())
	}

	fin := NewFinanceiroHandler(dbi)
	req = asUser(httptest.NewRequest(http.MethodGet, "/api/financeiro/pagar", nil), "jbento1@gmail.com")
	rr = httptest.NewRecorder()
	fin.Pagar(rr, req)
	var resp struct {
		Rows []LedgerRow `json:"rows"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("rows = %d", len(resp.Rows))
	}
	// Negative balance reported as-is, never clamped.
	if resp.Rows[0].Saldo != -4 {
		t.Fatalf("saldo = %v, want -4", resp.Rows[0].Saldo)
	}
}
