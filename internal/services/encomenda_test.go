package services

import (
	"math"
	"testing"

	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestComputeAggregates(t *testing.T) {
	items := []models.ItemEncomenda{
		{Quantidade: 2, PrecoCusto: 5, PrecoVenda: 8},
		{Quantidade: 3, PrecoCusto: 2, PrecoVenda: 4},
	}
	agg := ComputeAggregates(items)
	if !almostEqual(agg.Commission, 12) {
		t.Errorf("commission = %v, want 12", agg.Commission)
	}
	if !almostEqual(agg.CostTotal, 16) {
		t.Errorf("costTotal = %v, want 16", agg.CostTotal)
	}
	if !almostEqual(agg.SaleTotal, 28) {
		t.Errorf("saleTotal = %v, want 28", agg.SaleTotal)
	}
}

func TestComputeAggregates_OrderInsensitive(t *testing.T) {
	a := []models.ItemEncomenda{
		{Quantidade: 2, PrecoCusto: 5, PrecoVenda: 8},
		{Quantidade: 3, PrecoCusto: 2, PrecoVenda: 4},
		{Quantidade: 7, PrecoCusto: 1.5, PrecoVenda: 2.25},
	}
	b := []models.ItemEncomenda{a[2], a[0], a[1]}
	if ComputeAggregates(a) != ComputeAggregates(b) {
		t.Error("aggregates must not depend on item ordering")
	}
}

func TestComputeAggregates_GrossWeight(t *testing.T) {
	items := []models.ItemEncomenda{{Quantidade: 10, PesoGramas: 50}}
	agg := ComputeAggregates(items)
	if !almostEqual(agg.GrossWeightKg, 0.65) {
		t.Errorf("grossWeightKg = %v, want 0.65", agg.GrossWeightKg)
	}
}

func TestBalance(t *testing.T) {
	if got := Balance(100, 40); !almostEqual(got, 60) {
		t.Errorf("Balance(100,40) = %v, want 60", got)
	}
	// overpayment stays negative, never clamped
	if got := Balance(40, 100); !almostEqual(got, -60) {
		t.Errorf("Balance(40,100) = %v, want -60", got)
	}
}

func TestSanitizeQuantity(t *testing.T) {
	cases := map[string]string{
		"12a3":  "123",
		"":      "",
		"007":   "007",
		"x":     "",
		"1 000": "1000",
		"٣4":    "4", // only ASCII digits count
	}
	for in, want := range cases {
		if got := SanitizeQuantity(in); got != want {
			t.Errorf("SanitizeQuantity(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	if qty, ok := ParseQuantity("12a3"); qty != 123 || ok {
		t.Errorf("ParseQuantity(12a3) = (%d,%v), want (123,false)", qty, ok)
	}
	if qty, ok := ParseQuantity(""); qty != 0 || !ok {
		t.Errorf("ParseQuantity(\"\") = (%d,%v), want (0,true)", qty, ok)
	}
	if qty, ok := ParseQuantity("42"); qty != 42 || !ok {
		t.Errorf("ParseQuantity(42) = (%d,%v), want (42,true)", qty, ok)
	}
	if qty, ok := ParseQuantity("abc"); qty != 0 || ok {
		t.Errorf("ParseQuantity(abc) = (%d,%v), want (0,false)", qty, ok)
	}
	// Non-ASCII digit runes are dropped, never folded into the value.
	if qty, ok := ParseQuantity("٣"); qty != 0 || ok {
		t.Errorf("ParseQuantity(٣) = (%d,%v), want (0,false)", qty, ok)
	}
	// Overlong input is truncated instead of overflowing.
	if qty, ok := ParseQuantity("99999999999999999999"); qty != 999999999 || ok {
		t.Errorf("ParseQuantity(20 nines) = (%d,%v), want (999999999,false)", qty, ok)
	}
}

func TestSumPagamentos(t *testing.T) {
	ps := []models.Pagamento{{Valor: 10.5}, {Valor: 4.5}}
	if got := SumPagamentos(ps); !almostEqual(got, 15) {
		t.Errorf("SumPagamentos = %v, want 15", got)
	}
	pf := []models.PagamentoFornecedor{{Valor: 3}, {Valor: 7}}
	if got := SumPagamentosFornecedor(pf); !almostEqual(got, 10) {
		t.Errorf("SumPagamentosFornecedor = %v, want 10", got)
	}
}
