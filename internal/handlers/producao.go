package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/i18n"
	"github.com/JoelBonito/gestion-chs-sub001/internal/middleware"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
	"github.com/JoelBonito/gestion-chs-sub001/internal/services"
)

// ProducaoHandler serves the production board (orders grouped by status,
// delivered excluded) and the freight board (weight estimates for orders in
// transit or nearing it).
type ProducaoHandler struct {
	DB *gorm.DB
}

func NewProducaoHandler(db *gorm.DB) *ProducaoHandler { return &ProducaoHandler{DB: db} }

type boardColumn struct {
	Status      string          `json:"status"`
	StatusLabel string          `json:"status_label"`
	Encomendas  []EncomendaView `json:"encomendas"`
}

// Board groups active, undelivered orders into one column per status,
// keeping the production status order.
func (h *ProducaoHandler) Board(w http.ResponseWriter, r *http.Request) {
	email := auth.EmailFromContext(r.Context())
	lang := middleware.Lang(r.Context())

	dbq := h.DB.WithContext(r.Context()).
		Preload("Cliente").
		Preload("Fornecedor").
		Preload("Itens").
		Preload("Itens.Produto").
		Preload("Pagamentos").
		Preload("PagamentosFornecedor").
		Where("arquivada = ?", false).
		Where("status <> ?", i18n.StatusEntregue)
	if scope := policy.SupplierScope(email); len(scope) > 0 {
		dbq = dbq.Where("fornecedor_id IN ?", scope)
	}
	var encs []models.Encomenda
	if err := dbq.Order("data_producao_estimada asc").Find(&encs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_producao", nil)
		return
	}
	encs = policy.FilterEncomendas(email, encs)
	hide := policy.ShouldHidePrices(email)

	byStatus := make(map[string][]EncomendaView)
	for _, e := range encs {
		v := buildView(lang, e)
		if hide {
			maskView(&v)
		}
		byStatus[e.Status] = append(byStatus[e.Status], v)
	}
	columns := make([]boardColumn, 0, len(i18n.OrderStatuses))
	for _, status := range i18n.OrderStatuses {
		if status == i18n.StatusEntregue {
			continue
		}
		views := byStatus[status]
		if views == nil {
			views = []EncomendaView{}
		}
		columns = append(columns, boardColumn{
			Status:      status,
			StatusLabel: i18n.StatusLabel(lang, status),
			Encomendas:  views,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"columns": columns})
}

type freteRow struct {
	EncomendaID string     `json:"encomenda_id"`
	Numero      string     `json:"numero"`
	Cliente     string     `json:"cliente"`
	Status      string     `json:"status"`
	StatusLabel string     `json:"status_label"`
	PesoBrutoKg float64    `json:"peso_bruto_kg"`
	DataEnvio   *time.Time `json:"data_envio_estimada"`
}

// Frete lists orders in the packaging/transport stages with their estimated
// gross weight, the number freight quotes are based on.
func (h *ProducaoHandler) Frete(w http.ResponseWriter, r *http.Request) {
	email := auth.EmailFromContext(r.Context())
	lang := middleware.Lang(r.Context())

	dbq := h.DB.WithContext(r.Context()).
		Preload("Cliente").
		Preload("Itens").
		Where("arquivada = ?", false).
		Where("status IN ?", []string{i18n.StatusEmbalagem, i18n.StatusTransporte})
	if scope := policy.SupplierScope(email); len(scope) > 0 {
		dbq = dbq.Where("fornecedor_id IN ?", scope)
	}
	var encs []models.Encomenda
	if err := dbq.Order("data_envio_estimada asc").Find(&encs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_frete", nil)
		return
	}
	encs = policy.FilterEncomendas(email, encs)

	rows := make([]freteRow, 0, len(encs))
	var totalKg float64
	for _, e := range encs {
		agg := services.ComputeAggregates(e.Itens)
		cliente := ""
		if e.Cliente != nil {
			cliente = e.Cliente.Nome
		}
		rows = append(rows, freteRow{
			EncomendaID: e.ID.String(),
			Numero:      e.Numero,
			Cliente:     cliente,
			Status:      e.Status,
			StatusLabel: i18n.StatusLabel(lang, e.Status),
			PesoBrutoKg: agg.GrossWeightKg,
			DataEnvio:   e.DataEnvioEstimada,
		})
		totalKg += agg.GrossWeightKg
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"rows":          rows,
		"total_peso_kg": totalKg,
	})
}
