package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transporte is a standalone tracking record; it carries no FK to orders.
type Transporte struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Tracking      string    `gorm:"not null;index" json:"tracking"`
	Referencia    string    `json:"referencia"`
	Arquivado     bool      `gorm:"not null;default:false" json:"arquivado"`
	MotivoArquivo string    `json:"motivo_arquivo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (t *Transporte) BeforeCreate(_ *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// Projeto groups free-form project notes and their attachments.
type Projeto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome      string    `gorm:"not null" json:"nome"`
	Descricao string    `json:"descricao"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Projeto) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// Amostra is a product sample sent to a client.
type Amostra struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Nome      string     `gorm:"not null" json:"nome"`
	ClienteID *uuid.UUID `gorm:"type:uuid;index" json:"cliente_id"`
	Cliente   *Cliente   `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
	Descricao string     `json:"descricao"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (a *Amostra) BeforeCreate(_ *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
