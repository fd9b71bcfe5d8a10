package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/i18n"
	"github.com/JoelBonito/gestion-chs-sub001/internal/middleware"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/notify"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
	"github.com/JoelBonito/gestion-chs-sub001/internal/services"
	"github.com/JoelBonito/gestion-chs-sub001/validation"
)

type EncomendaHandler struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
}

func NewEncomendaHandler(db *gorm.DB, n *notify.Notifier) *EncomendaHandler {
	return &EncomendaHandler{DB: db, Notifier: n}
}

// EncomendaView is an order enriched with everything the list screen
// derives: live aggregates, recomputed balances and the localized status.
// The stored valor_* columns are caches; the saldo fields here come from the
// items and payments fetched in the same query.
type EncomendaView struct {
	models.Encomenda
	Aggregates      services.Aggregates `json:"aggregates"`
	SaldoCliente    float64             `json:"saldo_cliente"`
	SaldoFornecedor float64             `json:"saldo_fornecedor"`
	StatusLabel     string              `json:"status_label"`
}

func buildView(lang string, e models.Encomenda) EncomendaView {
	agg := services.ComputeAggregates(e.Itens)
	return EncomendaView{
		Encomenda:       e,
		Aggregates:      agg,
		SaldoCliente:    services.Balance(agg.SaleTotal, services.SumPagamentos(e.Pagamentos)),
		SaldoFornecedor: services.Balance(agg.CostTotal, services.SumPagamentosFornecedor(e.PagamentosFornecedor)),
		StatusLabel:     i18n.StatusLabel(lang, e.Status),
	}
}

func maskView(v *EncomendaView) {
	v.ValorTotal = 0
	v.ValorPago = 0
	v.SaldoCliente = 0
	v.Aggregates.Commission = 0
	v.Aggregates.SaleTotal = 0
	for i := range v.Itens {
		v.Itens[i].PrecoVenda = 0
		v.Itens[i].Subtotal = 0
	}
}

func (h *EncomendaHandler) fetch(r *http.Request, dest *[]models.Encomenda, conds ...func(*gorm.DB) *gorm.DB) error {
	dbq := h.DB.WithContext(r.Context()).
		Preload("Cliente").
		Preload("Fornecedor").
		Preload("Itens").
		Preload("Itens.Produto").
		Preload("Pagamentos").
		Preload("PagamentosFornecedor")
	for _, c := range conds {
		dbq = c(dbq)
	}
	return dbq.Order("created_at desc").Find(dest).Error
}

// List fetches the full joined order list once; status, search and date
// filters are then applied in memory over that snapshot.
func (h *EncomendaHandler) List(w http.ResponseWriter, r *http.Request) {
	email := auth.EmailFromContext(r.Context())
	lang := middleware.Lang(r.Context())

	var encs []models.Encomenda
	err := h.fetch(r, &encs, func(dbq *gorm.DB) *gorm.DB {
		dbq = dbq.Where("arquivada = ?", archivedFilter(r))
		if scope := policy.SupplierScope(email); len(scope) > 0 {
			dbq = dbq.Where("fornecedor_id IN ?", scope)
		}
		return dbq
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_encomendas", nil)
		return
	}
	encs = policy.FilterEncomendas(email, encs)

	status := r.URL.Query().Get("status")
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	hide := policy.ShouldHidePrices(email)

	views := make([]EncomendaView, 0, len(encs))
	for _, e := range encs {
		if status != "" && e.Status != status {
			continue
		}
		if q != "" && !matchesEncomenda(e, q) {
			continue
		}
		v := buildView(lang, e)
		if hide {
			maskView(&v)
		}
		views = append(views, v)
	}
	httpx.JSONList(w, views, int64(len(views)), len(views), 0)
}

func matchesEncomenda(e models.Encomenda, q string) bool {
	if strings.Contains(strings.ToLower(e.Numero), q) || strings.Contains(strings.ToLower(e.Etiqueta), q) {
		return true
	}
	if e.Cliente != nil && strings.Contains(strings.ToLower(e.Cliente.Nome), q) {
		return true
	}
	if e.Fornecedor != nil && strings.Contains(strings.ToLower(e.Fornecedor.Nome), q) {
		return true
	}
	return false
}

func (h *EncomendaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	email := auth.EmailFromContext(r.Context())

	var encs []models.Encomenda
	err := h.fetch(r, &encs, func(dbq *gorm.DB) *gorm.DB {
		return dbq.Where("encomendas.id = ?", id)
	})
	if err != nil || len(encs) == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	e := encs[0]
	if !policy.InSupplierScope(email, e.FornecedorID) {
		httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
		return
	}
	v := buildView(middleware.Lang(r.Context()), e)
	if policy.ShouldHidePrices(email) {
		maskView(&v)
	}
	httpx.JSON(w, http.StatusOK, v)
}

type encomendaInput struct {
	Numero               string     `json:"numero"`
	Etiqueta             string     `json:"etiqueta"`
	Status               string     `json:"status"`
	ClienteID            uuid.UUID  `json:"cliente_id"`
	FornecedorID         uuid.UUID  `json:"fornecedor_id"`
	DataProducaoEstimada *time.Time `json:"data_producao_estimada"`
	DataEnvioEstimada    *time.Time `json:"data_envio_estimada"`
	DataEntrega          *time.Time `json:"data_entrega"`
	Observacoes          string     `json:"observacoes"`
	ObservacoesColab     string     `json:"observacoes_colaborador"`
}

func (h *EncomendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input encomendaInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("numero", input.Numero, v)
	if input.ClienteID == uuid.Nil {
		v["cliente_id"] = "required"
	}
	if input.FornecedorID == uuid.Nil {
		v["fornecedor_id"] = "required"
	}
	if input.Status != "" && !i18n.IsValidStatus(input.Status) {
		v["status"] = "invalid_status"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	status := input.Status
	if status == "" {
		status = i18n.StatusNovoPedido
	}
	e := models.Encomenda{
		Numero:               strings.TrimSpace(input.Numero),
		Etiqueta:             input.Etiqueta,
		Status:               status,
		ClienteID:            input.ClienteID,
		FornecedorID:         input.FornecedorID,
		DataProducaoEstimada: input.DataProducaoEstimada,
		DataEnvioEstimada:    input.DataEnvioEstimada,
		DataEntrega:          input.DataEntrega,
		Observacoes:          input.Observacoes,
		ObservacoesColaborador: input.ObservacoesColab,
	}
	if err := h.DB.WithContext(r.Context()).Create(&e).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "encomenda_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

// Update edits the order header. Date fields are gated per identity: an
// account without the matching capability cannot move them, silently keeping
// the stored values.
func (h *EncomendaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var input encomendaInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var e models.Encomenda
	if err := h.DB.WithContext(r.Context()).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_encomenda", nil)
		return
	}
	email := auth.EmailFromContext(r.Context())
	if !policy.InSupplierScope(email, e.FornecedorID) {
		httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
		return
	}
	caps := policy.Lookup(email)

	if input.Numero != "" {
		e.Numero = strings.TrimSpace(input.Numero)
	}
	e.Etiqueta = input.Etiqueta
	if input.ClienteID != uuid.Nil {
		e.ClienteID = input.ClienteID
	}
	if input.FornecedorID != uuid.Nil {
		e.FornecedorID = input.FornecedorID
	}
	if caps.EditProductionDate {
		e.DataProducaoEstimada = input.DataProducaoEstimada
		e.DataEnvioEstimada = input.DataEnvioEstimada
	}
	if caps.EditDeliveryDate {
		e.DataEntrega = input.DataEntrega
	}
	if caps.Admin {
		e.Observacoes = input.Observacoes
	}
	e.ObservacoesColaborador = input.ObservacoesColab

	if err := h.DB.WithContext(r.Context()).Save(&e).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "encomenda_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

// UpdateStatus sets the order status. Any of the six statuses may be set
// from any other; there is no transition graph.
func (h *EncomendaHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var input struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !i18n.IsValidStatus(input.Status) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"status": "invalid_status"})
		return
	}
	var e models.Encomenda
	if err := h.DB.WithContext(r.Context()).First(&e, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	email := auth.EmailFromContext(r.Context())
	if !policy.InSupplierScope(email, e.FornecedorID) {
		httpx.JSONError(w, http.StatusForbidden, "no_permission", nil)
		return
	}
	previous := e.Status
	e.Status = input.Status
	if err := h.DB.WithContext(r.Context()).Save(&e).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "encomenda_update_failed", nil)
		return
	}
	h.Notifier.Publish(notify.Event{
		Kind:        notify.EventOrderStatusChanged,
		EncomendaID: e.ID,
		Actor:       email,
		Data:        map[string]string{"from": previous, "to": e.Status},
	})
	httpx.JSON(w, http.StatusOK, map[string]string{
		"status":       e.Status,
		"status_label": i18n.StatusLabel(middleware.Lang(r.Context()), e.Status),
	})
}

func (h *EncomendaHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

func (h *EncomendaHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *EncomendaHandler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	id, ok := pathUUID(w, r)
	if !ok {
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
	if err := h.DB.WithContext(r.Context()).Model(&e).Update("arquivada", archived).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "encomenda_archive_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"arquivada": archived})
}

// Delete removes the order and its dependent rows for good.
func (h *EncomendaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
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
	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("encomenda_id = ?", id).Delete(&models.ItemEncomenda{}).Error; err != nil {
			return err
		}
		if err := tx.Where("encomenda_id = ?", id).Delete(&models.Pagamento{}).Error; err != nil {
			return err
		}
		if err := tx.Where("encomenda_id = ?", id).Delete(&models.PagamentoFornecedor{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Encomenda{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "encomenda_delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
