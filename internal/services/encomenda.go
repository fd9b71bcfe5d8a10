// Package services holds the pure financial/logistic derivations used by the
// read models. Nothing here touches the database; callers pass preloaded rows.
package services

import (
	"strings"

	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
)

// PackagingOverhead is the fixed multiplier applied to the net item weight to
// estimate the gross shipping weight (packaging, filler, pallet share).
const PackagingOverhead = 1.3

// Aggregates are the derived figures for one order.
type Aggregates struct {
	Commission    float64 `json:"comissao"`
	CostTotal     float64 `json:"total_custo"`
	SaleTotal     float64 `json:"total_venda"`
	GrossWeightKg float64 `json:"peso_bruto_kg"`
}

// ComputeAggregates reduces an order's items into commission, cost and sale
// totals and the estimated gross weight in kilograms. It is insensitive to
// item ordering and never mutates its input.
func ComputeAggregates(items []models.ItemEncomenda) Aggregates {
	var agg Aggregates
	var grams float64
	for _, it := range items {
		qty := float64(it.Quantidade)
		agg.Commission += qty * (it.PrecoVenda - it.PrecoCusto)
		agg.CostTotal += qty * it.PrecoCusto
		agg.SaleTotal += qty * it.PrecoVenda
		grams += qty * it.PesoGramas
	}
	agg.GrossWeightKg = grams * PackagingOverhead / 1000
	return agg
}

// Balance is total minus paid. No clamping: a negative balance is legitimate
// (overpayment) and must be shown as-is.
func Balance(total, paid float64) float64 { return total - paid }

// SumPagamentos totals the client payments of an order.
func SumPagamentos(ps []models.Pagamento) float64 {
	var s float64
	for _, p := range ps {
		s += p.Valor
	}
	return s
}

// SumPagamentosFornecedor totals the supplier payments of an order.
func SumPagamentosFornecedor(ps []models.PagamentoFornecedor) float64 {
	var s float64
	for _, p := range ps {
		s += p.Valor
	}
	return s
}

// maxQuantityDigits bounds a parsed quantity so long pasted garbage cannot
// overflow the accumulator.
const maxQuantityDigits = 9

// SanitizeQuantity strips everything but ASCII digits from a raw quantity
// input. "12a3" commits as "123"; an empty result means zero. Digit runes
// outside '0'..'9' are dropped rather than reinterpreted.
func SanitizeQuantity(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseQuantity converts a raw quantity input to a non-negative integer.
// ok=false reports that characters had to be dropped or the field was empty,
// so the boundary can surface a validation warning instead of silently
// computing with the fallback.
func ParseQuantity(raw string) (qty int, ok bool) {
	clean := SanitizeQuantity(raw)
	if clean == "" {
		return 0, raw == "" // empty input is a deliberate zero, not a parse loss
	}
	ok = clean == strings.TrimSpace(raw)
	if len(clean) > maxQuantityDigits {
		clean = clean[:maxQuantityDigits]
		ok = false
	}
	for _, r := range clean {
		qty = qty*10 + int(r-'0')
	}
	return qty, ok
}
