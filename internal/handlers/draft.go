package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/draft"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
	"github.com/JoelBonito/gestion-chs-sub001/internal/services"
)

// DraftHandler exposes the line-item editor. All edits hit the draft store;
// the database only changes on Save, which replaces the order's items as one
// transaction and refreshes the cached totals.
type DraftHandler struct {
	DB     *gorm.DB
	Store  draft.Store
	Editor *draft.Editor
}

// gormProducts resolves products for the editor; the freight sentinel is
// excluded from lookups so it cannot be picked as a regular product.
type gormProducts struct {
	db *gorm.DB
}

func (g gormProducts) Produto(ctx context.Context, id uuid.UUID) (*models.Produto, error) {
	if id == models.FreteProdutoID {
		return nil, draft.ErrProductNotFound
	}
	var p models.Produto
	if err := g.db.WithContext(ctx).First(&p, "id = ? AND ativo = ?", id, true).Error; err != nil {
		return nil, draft.ErrProductNotFound
	}
	return &p, nil
}

func NewDraftHandler(db *gorm.DB, store draft.Store) *DraftHandler {
	return &DraftHandler{DB: db, Store: store, Editor: draft.NewEditor(gormProducts{db: db})}
}

// guard enforces the supplier scope before any draft operation touches the
// order. A draft for an order that does not exist yet has nothing to leak
// and passes; an existing order outside the identity's scope is a 403.
func (h *DraftHandler) guard(w http.ResponseWriter, r *http.Request, encomendaID uuid.UUID) bool {
	var e models.Encomenda
	err := h.DB.WithContext(r.Context()).Select("fornecedor_id").First(&e, "id = ?", encomendaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_load_failed", nil)
		return false
	}
	if !policy.InSupplierScope(auth.EmailFromContext(r.Context()), e.FornecedorID) {
		httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
		return false
	}
	return true
}

// respond serializes the draft, stripping every price field for identities
// with hidden prices. The stored draft keeps the real values.
func (h *DraftHandler) respond(w http.ResponseWriter, r *http.Request, l *draft.List) {
	if policy.ShouldHidePrices(auth.EmailFromContext(r.Context())) {
		m := l.Clone()
		for i := range m.Rows {
			m.Rows[i].PrecoCusto = 0
			m.Rows[i].PrecoVenda = 0
			m.Rows[i].Subtotal = 0
		}
		m.Total = 0
		l = m
	}
	httpx.JSON(w, http.StatusOK, l)
}

// load fetches the draft, seeding it from the persisted items on first use.
func (h *DraftHandler) load(r *http.Request, encomendaID uuid.UUID) (*draft.List, error) {
	l, err := h.Store.Load(r.Context(), encomendaID)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, draft.ErrDraftNotFound) {
		return nil, err
	}
	var itens []models.ItemEncomenda
	if err := h.DB.WithContext(r.Context()).Preload("Produto").
		Where("encomenda_id = ?", encomendaID).
		Order("created_at desc").
		Find(&itens).Error; err != nil {
		return nil, err
	}
	l = draft.FromItens(encomendaID, itens)
	if err := h.Store.Save(r.Context(), l); err != nil {
		return nil, err
	}
	return l, nil
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if !h.guard(w, r, id) {
		return
	}
	l, err := h.load(r, id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_load_failed", nil)
		return
	}
	h.respond(w, r, l)
}

func (h *DraftHandler) AddRow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if !h.guard(w, r, id) {
		return
	}
	l, err := h.load(r, id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_load_failed", nil)
		return
	}
	if r.URL.Query().Get("frete") == "1" {
		l.AddFrete()
	} else {
		l.AddRow()
	}
	if err := h.Store.Save(r.Context(), l); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_save_failed", nil)
		return
	}
	h.respond(w, r, l)
}

func (h *DraftHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if !h.guard(w, r, id) {
		return
	}
	rowID, err := uuid.Parse(r.PathValue("rowID"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	l, err := h.load(r, id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_load_failed", nil)
		return
	}
	switch err := h.Editor.UpdateRow(r.Context(), l, rowID, input.Field, input.Value); {
	case errors.Is(err, draft.ErrRowNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	case errors.Is(err, draft.ErrUnknownField):
		httpx.JSONError(w, http.StatusBadRequest, "unknown_field", nil)
		return
	case errors.Is(err, draft.ErrProductNotFound):
		httpx.JSONError(w, http.StatusBadRequest, "produto_not_found", nil)
		return
	case err != nil:
		httpx.JSONError(w, http.StatusInternalServerError, "draft_update_failed", nil)
		return
	}
	if err := h.Store.Save(r.Context(), l); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_save_failed", nil)
		return
	}
	h.respond(w, r, l)
}

func (h *DraftHandler) RemoveRow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if !h.guard(w, r, id) {
		return
	}
	rowID, err := uuid.Parse(r.PathValue("rowID"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	l, err := h.load(r, id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_load_failed", nil)
		return
	}
	if err := l.RemoveRow(rowID); err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err := h.Store.Save(r.Context(), l); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_save_failed", nil)
		return
	}
	h.respond(w, r, l)
}

// Save persists the draft: the order's items are replaced wholesale and the
// cached totals refreshed from the new rows. The draft is dropped after.
func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	l, err := h.Store.Load(r.Context(), id)
	if errors.Is(err, draft.ErrDraftNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_load_failed", nil)
		return
	}

	var e models.Encomenda
	if err := h.DB.WithContext(r.Context()).First(&e, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if !policy.InSupplierScope(auth.EmailFromContext(r.Context()), e.FornecedorID) {
		httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
		return
	}

	itens := l.Itens()
	agg := services.ComputeAggregates(itens)
	err = h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("encomenda_id = ?", id).Delete(&models.ItemEncomenda{}).Error; err != nil {
			return err
		}
		if len(itens) > 0 {
			if err := tx.Create(&itens).Error; err != nil {
				return err
			}
		}
		return tx.Model(&e).Updates(map[string]any{
			"valor_total":       agg.SaleTotal,
			"valor_total_custo": agg.CostTotal,
		}).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "encomenda_save_failed", nil)
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_delete_failed", nil)
		return
	}
	respItens, respAgg := itens, agg
	if policy.ShouldHidePrices(auth.EmailFromContext(r.Context())) {
		respItens = append([]models.ItemEncomenda(nil), itens...)
		for i := range respItens {
			respItens[i].PrecoCusto = 0
			respItens[i].PrecoVenda = 0
			respItens[i].Subtotal = 0
		}
		respAgg = services.Aggregates{GrossWeightKg: agg.GrossWeightKg}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"itens":      respItens,
		"aggregates": respAgg,
	})
}

// Discard drops the draft without touching persisted items.
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if !h.guard(w, r, id) {
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "draft_delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}
