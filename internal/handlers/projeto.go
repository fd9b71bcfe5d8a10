package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
	"github.com/JoelBonito/gestion-chs-sub001/validation"
)

// ProjetoHandler is behind the projects allow-list: identities outside it
// never reach these endpoints (router gate), but the check is repeated here.
type ProjetoHandler struct {
	DB *gorm.DB
}

func NewProjetoHandler(db *gorm.DB) *ProjetoHandler { return &ProjetoHandler{DB: db} }

func allowProjetos(w http.ResponseWriter, r *http.Request) bool {
	email := auth.EmailFromContext(r.Context())
	for _, nav := range policy.Lookup(email).Nav {
		if nav == policy.NavProjetos {
			return true
		}
	}
	httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
	return false
}

func (h *ProjetoHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowProjetos(w, r) {
		return
	}
	limit, offset := pageParams(r)
	dbq := h.DB.WithContext(r.Context()).Model(&models.Projeto{})
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		dbq = dbq.Where("lower(nome) LIKE ?", likePattern(q))
	}
	var total int64
	dbq.Count(&total)
	var ps []models.Projeto
	if err := dbq.Order("created_at desc").Limit(limit).Offset(offset).Find(&ps).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_projetos", nil)
		return
	}
	httpx.JSONList(w, ps, total, limit, offset)
}

type projetoInput struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
	Status    string `json:"status"`
}

func (h *ProjetoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowProjetos(w, r) {
		return
	}
	var input projetoInput
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
	p := models.Projeto{Nome: strings.TrimSpace(input.Nome), Descricao: input.Descricao, Status: input.Status}
	if err := h.DB.WithContext(r.Context()).Create(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "projeto_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProjetoHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !allowProjetos(w, r) {
		return
	}
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var input projetoInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var p models.Projeto
	if err := h.DB.WithContext(r.Context()).First(&p, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if input.Nome != "" {
		p.Nome = strings.TrimSpace(input.Nome)
	}
	p.Descricao = input.Descricao
	p.Status = input.Status
	if err := h.DB.WithContext(r.Context()).Save(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "projeto_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProjetoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !allowProjetos(w, r) {
		return
	}
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	res := h.DB.WithContext(r.Context()).Delete(&models.Projeto{}, "id = ?", id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "projeto_delete_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
