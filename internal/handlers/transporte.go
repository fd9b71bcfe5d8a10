package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/validation"
)

// TransporteHandler tracks shipment records. They carry no relation to
// orders; the tracking number is informational only.
type TransporteHandler struct {
	DB *gorm.DB
}

func NewTransporteHandler(db *gorm.DB) *TransporteHandler { return &TransporteHandler{DB: db} }

func (h *TransporteHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	dbq := h.DB.WithContext(r.Context()).Model(&models.Transporte{}).
		Where("arquivado = ?", archivedFilter(r))
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		like := likePattern(q)
		dbq = dbq.Where("lower(tracking) LIKE ? OR lower(referencia) LIKE ?", like, like)
	}
	var total int64
	dbq.Count(&total)
	var ts []models.Transporte
	if err := dbq.Order("created_at desc").Limit(limit).Offset(offset).Find(&ts).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_transportes", nil)
		return
	}
	httpx.JSONList(w, ts, total, limit, offset)
}

func (h *TransporteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Tracking   string `json:"tracking"`
		Referencia string `json:"referencia"`
	}
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("tracking", input.Tracking, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	t := models.Transporte{Tracking: strings.TrimSpace(input.Tracking), Referencia: input.Referencia}
	if err := h.DB.WithContext(r.Context()).Create(&t).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "transporte_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, t)
}

// Archive marks the record archived, keeping the stated reason.
func (h *TransporteHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var input struct {
		Motivo string `json:"motivo"`
	}
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	res := h.DB.WithContext(r.Context()).Model(&models.Transporte{}).Where("id = ?", id).
		Updates(map[string]any{"arquivado": true, "motivo_arquivo": input.Motivo})
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "transporte_archive_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "archived"})
}
