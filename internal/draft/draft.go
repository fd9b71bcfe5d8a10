// Package draft holds the server side of the order item editor. A draft is
// the working copy of an order's line items: rows are added, removed and
// edited field by field, totals are recomputed after every change, and the
// whole thing is persisted only when the caller saves the order. The freight
// row is a regular line pointing at the sentinel freight product; its cost
// side is locked.
package draft

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/services"
)

var (
	ErrRowNotFound     = errors.New("draft: row not found")
	ErrUnknownField    = errors.New("draft: unknown field")
	ErrProductNotFound = errors.New("draft: product not found")
)

// Row is one editable line of the draft. TempID identifies the row inside
// the draft only; it is never written to the database.
type Row struct {
	TempID      uuid.UUID `json:"temp_id"`
	ProdutoID   uuid.UUID `json:"produto_id"`
	ProdutoNome string    `json:"produto_nome"`
	Quantidade  int       `json:"quantidade"`
	PrecoCusto  float64   `json:"preco_custo"`
	PrecoVenda  float64   `json:"preco_venda"`
	PesoGramas  float64   `json:"peso_gramas"`
	Subtotal    float64   `json:"subtotal"`
}

// IsFrete reports whether the row is the freight line.
func (r Row) IsFrete() bool { return r.ProdutoID == models.FreteProdutoID }

// List is a full draft: the rows plus the running sale total.
type List struct {
	EncomendaID uuid.UUID `json:"encomenda_id"`
	Rows        []Row     `json:"rows"`
	Total       float64   `json:"total"`
}

func (l *List) recompute() {
	total := 0.0
	for i := range l.Rows {
		r := &l.Rows[i]
		r.Subtotal = float64(r.Quantidade) * r.PrecoVenda
		total += r.Subtotal
	}
	l.Total = total
}

// FromItens seeds a draft from persisted order items.
func FromItens(encomendaID uuid.UUID, itens []models.ItemEncomenda) *List {
	l := &List{EncomendaID: encomendaID, Rows: make([]Row, 0, len(itens))}
	for _, it := range itens {
		row := Row{
			TempID:     uuid.New(),
			ProdutoID:  it.ProdutoID,
			Quantidade: it.Quantidade,
			PrecoCusto: it.PrecoCusto,
			PrecoVenda: it.PrecoVenda,
			PesoGramas: it.PesoGramas,
		}
		if it.Produto != nil {
			row.ProdutoNome = it.Produto.Nome
		}
		l.Rows = append(l.Rows, row)
	}
	l.recompute()
	return l
}

// Itens converts the draft back into persistable order items. Blank rows
// (no product picked) are dropped.
func (l *List) Itens() []models.ItemEncomenda {
	out := make([]models.ItemEncomenda, 0, len(l.Rows))
	for _, r := range l.Rows {
		if r.ProdutoID == uuid.Nil {
			continue
		}
		out = append(out, models.ItemEncomenda{
			EncomendaID: l.EncomendaID,
			ProdutoID:   r.ProdutoID,
			Quantidade:  r.Quantidade,
			PrecoCusto:  r.PrecoCusto,
			PrecoVenda:  r.PrecoVenda,
			Subtotal:    r.Subtotal,
			PesoGramas:  r.PesoGramas,
		})
	}
	return out
}

// AddRow prepends a blank row so the newest line sits on top of the editor.
// All numeric fields start at zero.
func (l *List) AddRow() Row {
	row := Row{TempID: uuid.New()}
	l.Rows = append([]Row{row}, l.Rows...)
	l.recompute()
	return row
}

// Clone returns an independent copy of the draft.
func (l *List) Clone() *List {
	c := *l
	c.Rows = append([]Row(nil), l.Rows...)
	return &c
}

// AddFrete appends the freight sentinel row unless one is already present.
func (l *List) AddFrete() Row {
	for _, r := range l.Rows {
		if r.IsFrete() {
			return r
		}
	}
	row := Row{
		TempID:      uuid.New(),
		ProdutoID:   models.FreteProdutoID,
		ProdutoNome: "Frete",
		Quantidade:  1,
	}
	l.Rows = append(l.Rows, row)
	l.recompute()
	return row
}

// RemoveRow deletes the row with tempID.
func (l *List) RemoveRow(tempID uuid.UUID) error {
	for i, r := range l.Rows {
		if r.TempID == tempID {
			l.Rows = append(l.Rows[:i], l.Rows[i+1:]...)
			l.recompute()
			return nil
		}
	}
	return ErrRowNotFound
}

func (l *List) row(tempID uuid.UUID) *Row {
	for i := range l.Rows {
		if l.Rows[i].TempID == tempID {
			return &l.Rows[i]
		}
	}
	return nil
}

// ProductSource looks products up when a row's product changes.
type ProductSource interface {
	Produto(ctx context.Context, id uuid.UUID) (*models.Produto, error)
}

// Editor applies field edits to a draft row and keeps totals consistent.
type Editor struct {
	products ProductSource
}

func NewEditor(products ProductSource) *Editor {
	return &Editor{products: products}
}

// Editable field names accepted by UpdateRow.
const (
	FieldProduto    = "produto"
	FieldQuantidade = "quantidade"
	FieldPrecoCusto = "preco_custo"
	FieldPrecoVenda = "preco_venda"
)

// UpdateRow sets one field of one row from its raw string value.
// Quantities keep digits only; prices accept both "1.234,56" and "1234.56"
// and clamp below zero to zero. An empty product value clears the selection
// and its denormalized fields. On the freight row, product and cost edits
// are silently ignored so the sentinel cannot be repointed or costed.
func (e *Editor) UpdateRow(ctx context.Context, l *List, tempID uuid.UUID, field, value string) error {
	row := l.row(tempID)
	if row == nil {
		return ErrRowNotFound
	}

	switch field {
	case FieldProduto:
		if row.IsFrete() {
			return nil
		}
		trimmed := strings.TrimSpace(value)
		id, err := uuid.Parse(trimmed)
		if trimmed == "" || (err == nil && id == uuid.Nil) {
			// Selection cleared: the denormalized fields go back to zero.
			row.ProdutoID = uuid.Nil
			row.ProdutoNome = ""
			row.PrecoCusto = 0
			row.PrecoVenda = 0
			row.PesoGramas = 0
			break
		}
		if err != nil {
			return ErrProductNotFound
		}
		p, err := e.products.Produto(ctx, id)
		if err != nil || p == nil {
			return ErrProductNotFound
		}
		row.ProdutoID = p.ID
		row.ProdutoNome = p.Nome
		row.PrecoCusto = p.PrecoCusto
		row.PrecoVenda = p.PrecoVenda
		row.PesoGramas = p.PesoGramas

	case FieldQuantidade:
		qty, _ := services.ParseQuantity(value)
		row.Quantidade = qty

	case FieldPrecoCusto:
		if row.IsFrete() {
			return nil
		}
		row.PrecoCusto = clampPrice(NormalizeDecimal(value))

	case FieldPrecoVenda:
		row.PrecoVenda = clampPrice(NormalizeDecimal(value))

	default:
		return ErrUnknownField
	}

	l.recompute()
	return nil
}

func clampPrice(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// NormalizeDecimal parses user decimal input in either European form
// ("1.234,56") or plain form ("1234.56"). Unparseable input yields 0.
func NormalizeDecimal(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
