package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/validation"
)

// AmostraHandler manages product samples sent to clients.
type AmostraHandler struct {
	DB *gorm.DB
}

func NewAmostraHandler(db *gorm.DB) *AmostraHandler { return &AmostraHandler{DB: db} }

func (h *AmostraHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	dbq := h.DB.WithContext(r.Context()).Model(&models.Amostra{})
	if cid := r.URL.Query().Get("cliente_id"); cid != "" {
		if id, err := uuid.Parse(cid); err == nil {
			dbq = dbq.Where("cliente_id = ?", id)
		}
	}
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		dbq = dbq.Where("lower(nome) LIKE ?", likePattern(q))
	}
	var total int64
	dbq.Count(&total)
	var as []models.Amostra
	if err := dbq.Order("created_at desc").Limit(limit).Offset(offset).Find(&as).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_amostras", nil)
		return
	}
	httpx.JSONList(w, as, total, limit, offset)
}

type amostraInput struct {
	Nome      string     `json:"nome"`
	ClienteID *uuid.UUID `json:"cliente_id"`
	Descricao string     `json:"descricao"`
	Status    string     `json:"status"`
}

func (h *AmostraHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input amostraInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("nome", input.Nome, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	a := models.Amostra{
		Nome:      strings.TrimSpace(input.Nome),
		ClienteID: input.ClienteID,
		Descricao: input.Descricao,
		Status:    input.Status,
	}
	if err := h.DB.WithContext(r.Context()).Create(&a).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "amostra_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *AmostraHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var input amostraInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var a models.Amostra
	if err := h.DB.WithContext(r.Context()).First(&a, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if input.Nome != "" {
		a.Nome = strings.TrimSpace(input.Nome)
	}
	a.ClienteID = input.ClienteID
	a.Descricao = input.Descricao
	a.Status = input.Status
	if err := h.DB.WithContext(r.Context()).Save(&a).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "amostra_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *AmostraHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	res := h.DB.WithContext(r.Context()).Delete(&models.Amostra{}, "id = ?", id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "amostra_delete_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
