package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment methods accepted on both ledgers.
var FormasPagamento = []string{
	"dinheiro",
	"cartao_credito",
	"cartao_debito",
	"mbway",
	"transferencia",
	"cheque",
}

// Pagamento is a payment received from the client of an order.
type Pagamento struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EncomendaID uuid.UUID `gorm:"type:uuid;not null;index" json:"encomenda_id"`
	Valor       float64   `gorm:"not null" json:"valor"`
	Forma       string    `gorm:"not null" json:"forma"`
	Data        time.Time `gorm:"not null" json:"data"`
	Observacoes string    `json:"observacoes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Pagamento) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// PagamentoFornecedor is a payment made to the supplier of an order.
type PagamentoFornecedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EncomendaID uuid.UUID `gorm:"type:uuid;not null;index" json:"encomenda_id"`
	Valor       float64   `gorm:"not null" json:"valor"`
	Forma       string    `gorm:"not null" json:"forma"`
	Data        time.Time `gorm:"not null" json:"data"`
	Observacoes string    `json:"observacoes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *PagamentoFornecedor) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
