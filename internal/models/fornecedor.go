package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fornecedor entity. Archival is the Ativo toggle, never a physical delete.
type Fornecedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome      string    `gorm:"not null;index" json:"nome"`
	Email     string    `json:"email"`
	Telefone  string    `json:"telefone"`
	Morada    string    `json:"morada"`
	Ativo     bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the Portuguese plural the SQL migrations use.
func (Fornecedor) TableName() string { return "fornecedores" }

func (f *Fornecedor) BeforeCreate(_ *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
