package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
	"github.com/JoelBonito/gestion-chs-sub001/validation"
)

type FornecedorHandler struct {
	DB *gorm.DB
}

func NewFornecedorHandler(db *gorm.DB) *FornecedorHandler { return &FornecedorHandler{DB: db} }

func (h *FornecedorHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	dbq := h.DB.WithContext(r.Context()).Model(&models.Fornecedor{})
	if !archivedFilter(r) {
		dbq = dbq.Where("ativo = ?", true)
	}
	// Scoped identities only ever see their allow-listed suppliers.
	email := auth.EmailFromContext(r.Context())
	if scope := policy.SupplierScope(email); len(scope) > 0 {
		dbq = dbq.Where("id IN ?", scope)
	}
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		dbq = dbq.Where("lower(nome) LIKE ?", likePattern(q))
	}
	var total int64
	dbq.Count(&total)
	var fornecedores []models.Fornecedor
	if err := dbq.Order("nome asc").Limit(limit).Offset(offset).Find(&fornecedores).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_fornecedores", nil)
		return
	}
	httpx.JSONList(w, fornecedores, total, limit, offset)
}

func (h *FornecedorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	email := auth.EmailFromContext(r.Context())
	if !policy.InSupplierScope(email, id) {
		httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
		return
	}
	var f models.Fornecedor
	if err := h.DB.WithContext(r.Context()).First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_fornecedor", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

type fornecedorInput struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Morada   string `json:"morada"`
}

func (in fornecedorInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nome", in.Nome, v)
	validation.MinLen("nome", in.Nome, 2, v)
	if in.Email != "" {
		validation.Email("email", in.Email, v)
	}
	return v
}

func (h *FornecedorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input fornecedorInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	f := models.Fornecedor{
		Nome:     strings.TrimSpace(input.Nome),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Telefone: input.Telefone,
		Morada:   input.Morada,
		Ativo:    true,
	}
	if err := h.DB.WithContext(r.Context()).Create(&f).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "fornecedor_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, f)
}

func (h *FornecedorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var input fornecedorInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var f models.Fornecedor
	if err := h.DB.WithContext(r.Context()).First(&f, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	f.Nome = strings.TrimSpace(input.Nome)
	f.Email = strings.ToLower(strings.TrimSpace(input.Email))
	f.Telefone = input.Telefone
	f.Morada = input.Morada
	if err := h.DB.WithContext(r.Context()).Save(&f).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "fornecedor_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

func (h *FornecedorHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	res := h.DB.WithContext(r.Context()).Model(&models.Fornecedor{}).Where("id = ?", id).Update("ativo", false)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "fornecedor_archive_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "archived"})
}
