package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
	"github.com/JoelBonito/gestion-chs-sub001/validation"
)

type ProdutoHandler struct {
	DB *gorm.DB
}

func NewProdutoHandler(db *gorm.DB) *ProdutoHandler { return &ProdutoHandler{DB: db} }

// maskPrices zeroes price fields for identities that may not see them.
func maskPrices(email string, produtos []models.Produto) {
	if !policy.ShouldHidePrices(email) {
		return
	}
	for i := range produtos {
		produtos[i].PrecoCusto = 0
		produtos[i].PrecoVenda = 0
	}
}

func (h *ProdutoHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	email := auth.EmailFromContext(r.Context())

	dbq := h.DB.WithContext(r.Context()).Model(&models.Produto{})
	if !archivedFilter(r) {
		dbq = dbq.Where("ativo = ?", true)
	}
	if scope := policy.SupplierScope(email); len(scope) > 0 {
		dbq = dbq.Where("fornecedor_id IN ?", scope)
	}
	if fid := r.URL.Query().Get("fornecedor_id"); fid != "" {
		if id, err := uuid.Parse(fid); err == nil {
			dbq = dbq.Where("fornecedor_id = ?", id)
		}
	}
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		like := likePattern(q)
		dbq = dbq.Where("lower(nome) LIKE ? OR lower(marca) LIKE ?", like, like)
	}
	// The freight sentinel never shows up in product pickers.
	dbq = dbq.Where("id <> ?", models.FreteProdutoID)

	var total int64
	dbq.Count(&total)
	var produtos []models.Produto
	if err := dbq.Preload("Fornecedor").Order("nome asc").Limit(limit).Offset(offset).Find(&produtos).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_produtos", nil)
		return
	}
	maskPrices(email, produtos)
	httpx.JSONList(w, produtos, total, limit, offset)
}

func (h *ProdutoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var p models.Produto
	if err := h.DB.WithContext(r.Context()).Preload("Fornecedor").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_produto", nil)
		return
	}
	email := auth.EmailFromContext(r.Context())
	if !policy.InSupplierScope(email, p.FornecedorID) {
		httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
		return
	}
	one := []models.Produto{p}
	maskPrices(email, one)
	httpx.JSON(w, http.StatusOK, one[0])
}

type produtoInput struct {
	Nome         string    `json:"nome"`
	Marca        string    `json:"marca"`
	Tipo         string    `json:"tipo"`
	PrecoCusto   float64   `json:"preco_custo"`
	PrecoVenda   float64   `json:"preco_venda"`
	PesoGramas   float64   `json:"peso_gramas"`
	FornecedorID uuid.UUID `json:"fornecedor_id"`
	StockFrascos int       `json:"stock_frascos"`
	StockTampas  int       `json:"stock_tampas"`
	StockRotulos int       `json:"stock_rotulos"`
}

func (in produtoInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nome", in.Nome, v)
	validation.NonNegativeFloat("preco_custo", in.PrecoCusto, v)
	validation.NonNegativeFloat("preco_venda", in.PrecoVenda, v)
	validation.NonNegativeFloat("peso_gramas", in.PesoGramas, v)
	if in.FornecedorID == uuid.Nil {
		v["fornecedor_id"] = "required"
	}
	return v
}

// applyStock keeps stock counters meaningful only for the production
// supplier; every other supplier's products store zeros.
func applyStock(p *models.Produto, in produtoInput) {
	if p.FornecedorID == policy.ProducaoFornecedorID {
		p.StockFrascos = in.StockFrascos
		p.StockTampas = in.StockTampas
		p.StockRotulos = in.StockRotulos
		return
	}
	p.StockFrascos, p.StockTampas, p.StockRotulos = 0, 0, 0
}

func (h *ProdutoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input produtoInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var fornecedor models.Fornecedor
	if err := h.DB.WithContext(r.Context()).Select("id").First(&fornecedor, "id = ?", input.FornecedorID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "fornecedor_not_found", nil)
		return
	}
	p := models.Produto{
		Nome:         strings.TrimSpace(input.Nome),
		Marca:        input.Marca,
		Tipo:         input.Tipo,
		PrecoCusto:   input.PrecoCusto,
		PrecoVenda:   input.PrecoVenda,
		PesoGramas:   input.PesoGramas,
		FornecedorID: input.FornecedorID,
		Ativo:        true,
	}
	applyStock(&p, input)
	if err := h.DB.WithContext(r.Context()).Create(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "produto_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProdutoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if id == models.FreteProdutoID {
		httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
		return
	}
	var input produtoInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var p models.Produto
	if err := h.DB.WithContext(r.Context()).First(&p, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	p.Nome = strings.TrimSpace(input.Nome)
	p.Marca = input.Marca
	p.Tipo = input.Tipo
	p.PrecoCusto = input.PrecoCusto
	p.PrecoVenda = input.PrecoVenda
	p.PesoGramas = input.PesoGramas
	p.FornecedorID = input.FornecedorID
	applyStock(&p, input)
	if err := h.DB.WithContext(r.Context()).Save(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "produto_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProdutoHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	res := h.DB.WithContext(r.Context()).Model(&models.Produto{}).Where("id = ?", id).Update("ativo", false)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "produto_archive_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "archived"})
}
