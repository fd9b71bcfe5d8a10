package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment entity types accepted by the file store.
var AttachmentEntityTypes = []string{
	"payable",
	"receivable",
	"transporte",
	"produto",
	"projeto",
	"amostra",
}

// Attachment is a stored file keyed by (entity type, entity id).
// Attachments are hard-deleted, unlike the archived entities they belong to.
type Attachment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType  string    `gorm:"not null;index:idx_attach_entity,priority:1" json:"entity_type"`
	EntityID    uuid.UUID `gorm:"type:uuid;not null;index:idx_attach_entity,priority:2" json:"entity_id"`
	FileName    string    `gorm:"not null" json:"file_name"`
	StoragePath string    `gorm:"not null" json:"storage_path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsAttachmentEntityType reports whether t is one of the known entity types.
func IsAttachmentEntityType(t string) bool {
	for _, v := range AttachmentEntityTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (a *Attachment) BeforeCreate(_ *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
