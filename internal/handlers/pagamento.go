package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/notify"
	"github.com/JoelBonito/gestion-chs-sub001/internal/services"
	"github.com/JoelBonito/gestion-chs-sub001/validation"
)

// PagamentoHandler covers both ledgers: payments received from clients and
// payments made to suppliers. After every write the order's cached paid
// column is refreshed from the live sum, so the cache can never drift
// further than one failed write.
type PagamentoHandler struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
}

func NewPagamentoHandler(db *gorm.DB, n *notify.Notifier) *PagamentoHandler {
	return &PagamentoHandler{DB: db, Notifier: n}
}

type pagamentoInput struct {
	EncomendaID uuid.UUID  `json:"encomenda_id"`
	Valor       float64    `json:"valor"`
	Forma       string     `json:"forma"`
	Data        *time.Time `json:"data"`
	Observacoes string     `json:"observacoes"`
}

func (in pagamentoInput) validate() validation.Violations {
	v := validation.Violations{}
	if in.EncomendaID == uuid.Nil {
		v["encomenda_id"] = "required"
	}
	validation.PositiveFloat("valor", in.Valor, v)
	validation.OneOf("forma", in.Forma, models.FormasPagamento, v)
	return v
}

func (in pagamentoInput) date() time.Time {
	if in.Data != nil {
		return *in.Data
	}
	return time.Now()
}

func (h *PagamentoHandler) ListReceber(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var ps []models.Pagamento
	if err := h.DB.WithContext(r.Context()).Where("encomenda_id = ?", id).Order("data desc").Find(&ps).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_pagamentos", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"pagamentos": ps,
		"total_pago": services.SumPagamentos(ps),
	})
}

func (h *PagamentoHandler) ListPagar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var ps []models.PagamentoFornecedor
	if err := h.DB.WithContext(r.Context()).Where("encomenda_id = ?", id).Order("data desc").Find(&ps).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_pagamentos", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"pagamentos": ps,
		"total_pago": services.SumPagamentosFornecedor(ps),
	})
}

// CreateReceber records a client payment and refreshes valor_pago.
func (h *PagamentoHandler) CreateReceber(w http.ResponseWriter, r *http.Request) {
	var input pagamentoInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var e models.Encomenda
	if err := h.DB.WithContext(r.Context()).First(&e, "id = ?", input.EncomendaID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	p := models.Pagamento{
		EncomendaID: input.EncomendaID,
		Valor:       input.Valor,
		Forma:       input.Forma,
		Data:        input.date(),
		Observacoes: input.Observacoes,
	}
	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		return refreshValorPago(tx, input.EncomendaID)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pagamento_create_failed", nil)
		return
	}
	h.Notifier.Publish(notify.Event{
		Kind:        notify.EventPaymentReceived,
		EncomendaID: input.EncomendaID,
		Actor:       auth.EmailFromContext(r.Context()),
		Data:        map[string]string{"forma": p.Forma},
	})
	httpx.JSON(w, http.StatusCreated, p)
}

// CreatePagar records a supplier payment and refreshes valor_pago_fornecedor.
func (h *PagamentoHandler) CreatePagar(w http.ResponseWriter, r *http.Request) {
	var input pagamentoInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var e models.Encomenda
	if err := h.DB.WithContext(r.Context()).First(&e, "id = ?", input.EncomendaID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	p := models.PagamentoFornecedor{
		EncomendaID: input.EncomendaID,
		Valor:       input.Valor,
		Forma:       input.Forma,
		Data:        input.date(),
		Observacoes: input.Observacoes,
	}
	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		return refreshValorPagoFornecedor(tx, input.EncomendaID)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pagamento_create_failed", nil)
		return
	}
	h.Notifier.Publish(notify.Event{
		Kind:        notify.EventPaymentMade,
		EncomendaID: input.EncomendaID,
		Actor:       auth.EmailFromContext(r.Context()),
		Data:        map[string]string{"forma": p.Forma},
	})
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *PagamentoHandler) DeleteReceber(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var p models.Pagamento
	if err := h.DB.WithContext(r.Context()).First(&p, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return refreshValorPago(tx, p.EncomendaID)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pagamento_delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *PagamentoHandler) DeletePagar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var p models.PagamentoFornecedor
	if err := h.DB.WithContext(r.Context()).First(&p, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return refreshValorPagoFornecedor(tx, p.EncomendaID)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pagamento_delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func refreshValorPago(tx *gorm.DB, encomendaID uuid.UUID) error {
	var ps []models.Pagamento
	if err := tx.Where("encomenda_id = ?", encomendaID).Find(&ps).Error; err != nil {
		return err
	}
	return tx.Model(&models.Encomenda{}).Where("id = ?", encomendaID).
		Update("valor_pago", services.SumPagamentos(ps)).Error
}

func refreshValorPagoFornecedor(tx *gorm.DB, encomendaID uuid.UUID) error {
	var ps []models.PagamentoFornecedor
	if err := tx.Where("encomenda_id = ?", encomendaID).Find(&ps).Error; err != nil {
		return err
	}
	return tx.Model(&models.Encomenda{}).Where("id = ?", encomendaID).
		Update("valor_pago_fornecedor", services.SumPagamentosFornecedor(ps)).Error
}
