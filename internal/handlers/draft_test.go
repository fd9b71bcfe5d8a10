package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/JoelBonito/gestion-chs-sub001/internal/draft"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
)

func draftRequest(method, path, email string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, jsonBody(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return asUser(req, email)
}

func TestDraftSupplierScope(t *testing.T) {
	dbi := setupTestDB(t)
	f := seedOrder(t, dbi, uuid.New()) // supplier outside felipe's allow-list
	store := draft.NewMemoryStore(0)
	h := NewDraftHandler(dbi, store)
	encID := f.encomenda.ID.String()

	req := draftRequest(http.MethodGet, "/x", "felipe@colaborador.com", "")
	req.SetPathValue("id", encID)
	rr := httptest.NewRecorder()
	h.Get(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("out-of-scope draft get = %d %s", rr.Code, rr.Body.String())
	}

	req = draftRequest(http.MethodPost, "/x", "felipe@colaborador.com", "")
	req.SetPathValue("id", encID)
	rr = httptest.NewRecorder()
	h.Save(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("out-of-scope draft save = %d", rr.Code)
	}

	// An admin still reaches the same draft.
	req = draftRequest(http.MethodGet, "/x", "jbento1@gmail.com", "")
	req.SetPathValue("id", encID)
	rr = httptest.NewRecorder()
	h.Get(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin draft get = %d", rr.Code)
	}
}

func TestDraftMasksPrices(t *testing.T) {
	dbi := setupTestDB(t)
	f := seedOrder(t, dbi, policy.FelipeFornecedores[0])
	store := draft.NewMemoryStore(0)
	h := NewDraftHandler(dbi, store)
	encID := f.encomenda.ID.String()

	req := draftRequest(http.MethodGet, "/x", "felipe@colaborador.com", "")
	req.SetPathValue("id", encID)
	rr := httptest.NewRecorder()
	h.Get(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("in-scope draft get = %d %s", rr.Code, rr.Body.String())
	}
	var l draft.List
	if err := json.Unmarshal(rr.Body.Bytes(), &l); err != nil {
		t.Fatal(err)
	}
	if len(l.Rows) != 2 {
		t.Fatalf("rows = %d", len(l.Rows))
	}
	if l.Total != 0 {
		t.Fatalf("total not masked: %v", l.Total)
	}
	for _, row := range l.Rows {
		if row.PrecoCusto != 0 || row.PrecoVenda != 0 || row.Subtotal != 0 {
			t.Fatalf("row prices not masked: %+v", row)
		}
	}

	// The stored draft keeps the real values for identities that may see them.
	req = draftRequest(http.MethodGet, "/x", "jbento1@gmail.com", "")
	req.SetPathValue("id", encID)
	rr = httptest.NewRecorder()
	h.Get(rr, req)
	if err := json.Unmarshal(rr.Body.Bytes(), &l); err != nil {
		t.Fatal(err)
	}
	if l.Total != 28 {
		t.Fatalf("unmasked total = %v, want 28", l.Total)
	}
}

func TestDraftEditAndSaveFlow(t *testing.T) {
	dbi := setupTestDB(t)
	f := seedOrder(t, dbi, uuid.New())
	store := draft.NewMemoryStore(0)
	h := NewDraftHandler(dbi, store)
	encID := f.encomenda.ID.String()

	// Seed the draft from the two persisted items.
	req := draftRequest(http.MethodGet, "/api/encomendas/x/draft", "jbento1@gmail.com", "")
	req.SetPathValue("id", encID)
	rr := httptest.NewRecorder()
	h.Get(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("get draft = %d %s", rr.Code, rr.Body.String())
	}
	var l draft.List
	if err := json.Unmarshal(rr.Body.Bytes(), &l); err != nil {
		t.Fatal(err)
	}
	if len(l.Rows) != 2 || l.Total != 28 {
		t.Fatalf("seeded draft = %+v", l)
	}

	// Bump the first row's quantity from its raw string form.
	row := l.Rows[0]
	req = draftRequest(http.MethodPatch, "/x", "jbento1@gmail.com", `{"field":"quantidade","value":"5x"}`)
	req.SetPathValue("id", encID)
	req.SetPathValue("rowID", row.TempID.String())
	rr = httptest.NewRecorder()
	h.UpdateRow(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("update row = %d %s", rr.Code, rr.Body.String())
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &l); err != nil {
		t.Fatal(err)
	}
	if l.Rows[0].Quantidade != 5 {
		t.Fatalf("quantity = %d, want 5 (digits only)", l.Rows[0].Quantidade)
	}

	// Persist and verify the cached totals were refreshed.
	req = draftRequest(http.MethodPost, "/x", "jbento1@gmail.com", "")
	req.SetPathValue("id", encID)
	rr = httptest.NewRecorder()
	h.Save(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("save = %d %s", rr.Code, rr.Body.String())
	}

	var e models.Encomenda
	if err := dbi.Preload("Itens").First(&e, "id = ?", f.encomenda.ID).Error; err != nil {
		t.Fatal(err)
	}
	if len(e.Itens) != 2 {
		t.Fatalf("items = %d", len(e.Itens))
	}
	want := 5.0*l.Rows[0].PrecoVenda + float64(l.Rows[1].Quantidade)*l.Rows[1].PrecoVenda
	if e.ValorTotal != want {
		t.Fatalf("valor_total = %v, want %v", e.ValorTotal, want)
	}

	// The draft is gone after a successful save.
	req = draftRequest(http.MethodGet, "/x", "jbento1@gmail.com", "")
	req.SetPathValue("id", encID)
	rr = httptest.NewRecorder()
	h.Get(rr, req)
	if err := json.Unmarshal(rr.Body.Bytes(), &l); err != nil {
		t.Fatal(err)
	}
	// Reseeded from the freshly persisted rows.
	if len(l.Rows) != 2 {
		t.Fatalf("reseeded rows = %d", len(l.Rows))
	}
}
