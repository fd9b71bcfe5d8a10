package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FreteProdutoID marks the synthetic freight line item. Rows bound to it are
// rendered read-only for product/cost; quantity and sale price are reused as
// kilograms and rate. The overload is inherited from the data, so it is kept
// as a sentinel rather than generalized into a separate order field.
var FreteProdutoID = uuid.MustParse("00000000-0000-0000-0000-00000000f7e7")

// Encomenda links a client, a supplier, line items and payments.
// ValorTotal/ValorTotalCusto/ValorPago* are denormalized caches refreshed on
// write; read models recompute from Itens and Pagamentos.
type Encomenda struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Numero   string    `gorm:"not null;index" json:"numero"`
	Etiqueta string    `json:"etiqueta"`
	Status   string    `gorm:"not null" json:"status"`

	ValorTotal           float64 `gorm:"not null;default:0" json:"valor_total"`
	ValorTotalCusto      float64 `gorm:"not null;default:0" json:"valor_total_custo"`
	ValorPago            float64 `gorm:"not null;default:0" json:"valor_pago"`
	ValorPagoFornecedor  float64 `gorm:"not null;default:0" json:"valor_pago_fornecedor"`

	ClienteID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"cliente_id"`
	Cliente      *Cliente    `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
	FornecedorID uuid.UUID   `gorm:"type:uuid;not null;index" json:"fornecedor_id"`
	Fornecedor   *Fornecedor `gorm:"foreignKey:FornecedorID" json:"fornecedor,omitempty"`

	DataProducaoEstimada *time.Time `json:"data_producao_estimada"`
	DataEnvioEstimada    *time.Time `json:"data_envio_estimada"`
	DataEntrega          *time.Time `json:"data_entrega"`

	Observacoes             string `json:"observacoes"`
	ObservacoesColaborador  string `json:"observacoes_colaborador"`

	Arquivada bool `gorm:"not null;default:false" json:"arquivada"`

	Itens                 []ItemEncomenda       `gorm:"foreignKey:EncomendaID" json:"itens,omitempty"`
	Pagamentos            []Pagamento           `gorm:"foreignKey:EncomendaID" json:"pagamentos,omitempty"`
	PagamentosFornecedor  []PagamentoFornecedor `gorm:"foreignKey:EncomendaID" json:"pagamentos_fornecedor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Encomenda) BeforeCreate(_ *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// ItemEncomenda is one order line. Subtotal is always re-derived from
// Quantidade × PrecoVenda, never trusted from stored data when editing.
// PesoGramas is denormalized from the product at selection time.
type ItemEncomenda struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EncomendaID uuid.UUID `gorm:"type:uuid;not null;index" json:"encomenda_id"`
	ProdutoID   uuid.UUID `gorm:"type:uuid;not null" json:"produto_id"`
	Produto     *Produto  `gorm:"foreignKey:ProdutoID" json:"produto,omitempty"`

	Quantidade int     `gorm:"not null;default:0" json:"quantidade"`
	PrecoCusto float64 `gorm:"not null;default:0" json:"preco_custo"`
	PrecoVenda float64 `gorm:"not null;default:0" json:"preco_venda"`
	Subtotal   float64 `gorm:"not null;default:0" json:"subtotal"`
	PesoGramas float64 `gorm:"not null;default:0" json:"peso_gramas"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *ItemEncomenda) BeforeCreate(_ *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// IsFrete reports whether this row is the synthetic freight line.
func (i *ItemEncomenda) IsFrete() bool { return i.ProdutoID == FreteProdutoID }
