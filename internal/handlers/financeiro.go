package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/i18n"
	"github.com/JoelBonito/gestion-chs-sub001/internal/middleware"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
	"github.com/JoelBonito/gestion-chs-sub001/internal/services"
)

// FinanceiroHandler serves the two money screens: what clients still owe
// (receber) and what is still owed to suppliers (pagar). Totals and balances
// are recomputed from items and payments on every read; the stored valor_*
// columns are ignored here.
type FinanceiroHandler struct {
	DB *gorm.DB
}

func NewFinanceiroHandler(db *gorm.DB) *FinanceiroHandler { return &FinanceiroHandler{DB: db} }

// LedgerRow is one order in a ledger: recomputed totals, balance and the
// formatted amounts in the viewer's locale. Negative balances (overpayment)
// are reported as-is.
type LedgerRow struct {
	EncomendaID string  `json:"encomenda_id"`
	Numero      string  `json:"numero"`
	Nome        string  `json:"nome"`
	Status      string  `json:"status"`
	StatusLabel string  `json:"status_label"`
	Total       float64 `json:"total"`
	Pago        float64 `json:"pago"`
	Saldo       float64 `json:"saldo"`
	TotalFmt    string  `json:"total_fmt"`
	SaldoFmt    string  `json:"saldo_fmt"`
}

func (h *FinanceiroHandler) fetch(r *http.Request) ([]models.Encomenda, error) {
	email := auth.EmailFromContext(r.Context())
	dbq := h.DB.WithContext(r.Context()).
		Preload("Cliente").
		Preload("Fornecedor").
		Preload("Itens").
		Preload("Pagamentos").
		Preload("PagamentosFornecedor").
		Where("arquivada = ?", false)
	if scope := policy.SupplierScope(email); len(scope) > 0 {
		dbq = dbq.Where("fornecedor_id IN ?", scope)
	}
	var encs []models.Encomenda
	if err := dbq.Order("created_at desc").Find(&encs).Error; err != nil {
		return nil, err
	}
	return policy.FilterEncomendas(email, encs), nil
}

// Receber lists outstanding client balances per order.
func (h *FinanceiroHandler) Receber(w http.ResponseWriter, r *http.Request) {
	encs, err := h.fetch(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_financeiro", nil)
		return
	}
	lang := middleware.Lang(r.Context())
	rows := make([]LedgerRow, 0, len(encs))
	var totalSaldo float64
	for _, e := range encs {
		agg := services.ComputeAggregates(e.Itens)
		pago := services.SumPagamentos(e.Pagamentos)
		saldo := services.Balance(agg.SaleTotal, pago)
		nome := ""
		if e.Cliente != nil {
			nome = e.Cliente.Nome
		}
		rows = append(rows, LedgerRow{
			EncomendaID: e.ID.String(),
			Numero:      e.Numero,
			Nome:        nome,
			Status:      e.Status,
			StatusLabel: i18n.StatusLabel(lang, e.Status),
			Total:       agg.SaleTotal,
			Pago:        pago,
			Saldo:       saldo,
			TotalFmt:    services.FormatEUR(lang, agg.SaleTotal),
			SaldoFmt:    services.FormatEUR(lang, saldo),
		})
		totalSaldo += saldo
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"rows":            rows,
		"total_saldo":     totalSaldo,
		"total_saldo_fmt": services.FormatEUR(lang, totalSaldo),
	})
}

// Pagar lists outstanding supplier balances per order.
func (h *FinanceiroHandler) Pagar(w http.ResponseWriter, r *http.Request) {
	encs, err := h.fetch(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_financeiro", nil)
		return
	}
	lang := middleware.Lang(r.Context())
	rows := make([]LedgerRow, 0, len(encs))
	var totalSaldo float64
	for _, e := range encs {
		agg := services.ComputeAggregates(e.Itens)
		pago := services.SumPagamentosFornecedor(e.PagamentosFornecedor)
		saldo := services.Balance(agg.CostTotal, pago)
		nome := ""
		if e.Fornecedor != nil {
			nome = e.Fornecedor.Nome
		}
		rows = append(rows, LedgerRow{
			EncomendaID: e.ID.String(),
			Numero:      e.Numero,
			Nome:        nome,
			Status:      e.Status,
			StatusLabel: i18n.StatusLabel(lang, e.Status),
			Total:       agg.CostTotal,
			Pago:        pago,
			Saldo:       saldo,
			TotalFmt:    services.FormatEUR(lang, agg.CostTotal),
			SaldoFmt:    services.FormatEUR(lang, saldo),
		})
		totalSaldo += saldo
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"rows":            rows,
		"total_saldo":     totalSaldo,
		"total_saldo_fmt": services.FormatEUR(lang, totalSaldo),
	})
}
