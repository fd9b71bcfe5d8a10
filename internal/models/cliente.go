package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente entity
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome      string    `gorm:"not null;index" json:"nome"`
	Email     string    `json:"email"`
	Telefone  string    `json:"telefone"`
	Morada    string    `json:"morada"`
	NIF       string    `json:"nif"`
	Ativo     bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Cliente) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
