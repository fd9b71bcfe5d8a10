package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/validation"
)

type ClienteHandler struct {
	DB *gorm.DB
}

func NewClienteHandler(db *gorm.DB) *ClienteHandler { return &ClienteHandler{DB: db} }

func (h *ClienteHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	dbq := h.DB.WithContext(r.Context()).Model(&models.Cliente{})
	if !archivedFilter(r) {
		dbq = dbq.Where("ativo = ?", true)
	}
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		like := likePattern(q)
		dbq = dbq.Where("lower(nome) LIKE ? OR lower(email) LIKE ?", like, like)
	}
	var total int64
	dbq.Count(&total)
	var clientes []models.Cliente
	if err := dbq.Order("nome asc").Limit(limit).Offset(offset).Find(&clientes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clientes", nil)
		return
	}
	httpx.JSONList(w, clientes, total, limit, offset)
}

func (h *ClienteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var c models.Cliente
	if err := h.DB.WithContext(r.Context()).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_cliente", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

type clienteInput struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Morada   string `json:"morada"`
	NIF      string `json:"nif"`
}

func (in clienteInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nome", in.Nome, v)
	validation.MinLen("nome", in.Nome, 2, v)
	if in.Email != "" {
		validation.Email("email", in.Email, v)
	}
	return v
}

func (h *ClienteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input clienteInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c := models.Cliente{
		Nome:     strings.TrimSpace(input.Nome),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Telefone: input.Telefone,
		Morada:   input.Morada,
		NIF:      input.NIF,
		Ativo:    true,
	}
	if err := h.DB.WithContext(r.Context()).Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "cliente_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *ClienteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var input clienteInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var c models.Cliente
	if err := h.DB.WithContext(r.Context()).First(&c, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	c.Nome = strings.TrimSpace(input.Nome)
	c.Email = strings.ToLower(strings.TrimSpace(input.Email))
	c.Telefone = input.Telefone
	c.Morada = input.Morada
	c.NIF = input.NIF
	if err := h.DB.WithContext(r.Context()).Save(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "cliente_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Archive flips the active flag instead of deleting; archived clients drop
// out of the default list but keep their order history intact.
func (h *ClienteHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	res := h.DB.WithContext(r.Context()).Model(&models.Cliente{}).Where("id = ?", id).Update("ativo", false)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "cliente_archive_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "archived"})
}
