package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Produto entity. Stock counters (frascos/tampas/rotulos) only carry meaning
// for products of the production supplier; for everyone else they stay zero.
type Produto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome         string    `gorm:"not null;index" json:"nome"`
	Marca        string    `json:"marca"`
	Tipo         string    `json:"tipo"`
	PrecoCusto   float64   `gorm:"not null;default:0" json:"preco_custo"`
	PrecoVenda   float64   `gorm:"not null;default:0" json:"preco_venda"`
	PesoGramas   float64   `gorm:"not null;default:0" json:"peso_gramas"`
	Ativo        bool      `gorm:"not null;default:true" json:"ativo"`
	FornecedorID uuid.UUID  `gorm:"type:uuid;index" json:"fornecedor_id"`
	Fornecedor   *Fornecedor `gorm:"foreignKey:FornecedorID" json:"fornecedor,omitempty"`

	StockFrascos int `gorm:"not null;default:0" json:"stock_frascos"`
	StockTampas  int `gorm:"not null;default:0" json:"stock_tampas"`
	StockRotulos int `gorm:"not null;default:0" json:"stock_rotulos"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Produto) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
