// Package storage keeps uploaded attachments on local disk. Files live under
// uploadDir/<entity_type>/<attachment_id><ext> and are served back through
// the /files/ route; the database row (models.Attachment) is the source of
// truth for metadata.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
)

var ErrFileNotFound = errors.New("storage: file not found")

// MaxUploadSize bounds a single attachment upload.
const MaxUploadSize = 20 << 20 // 20 MiB

type Disk struct {
	root string
}

func NewDisk(root string) (*Disk, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: init %s: %w", root, err)
	}
	return &Disk{root: root}, nil
}

// Save streams the upload to disk and returns a filled metadata row
// (not yet persisted). The original client filename is kept only as
// metadata; the on-disk name is the attachment id.
func (d *Disk) Save(entityType string, entityID uuid.UUID, fileName, contentType string, r io.Reader) (*models.Attachment, error) {
	if !models.IsAttachmentEntityType(entityType) {
		return nil, fmt.Errorf("storage: unknown entity type %q", entityType)
	}
	id := uuid.New()
	ext := safeExt(fileName)
	rel := filepath.Join(entityType, id.String()+ext)

	dir := filepath.Join(d.root, entityType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir: %w", err)
	}
	f, err := os.Create(filepath.Join(d.root, rel))
	if err != nil {
		return nil, fmt.Errorf("storage: create: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("storage: write: %w", err)
	}
	if size > MaxUploadSize {
		os.Remove(f.Name())
		return nil, fmt.Errorf("storage: file exceeds %d bytes", MaxUploadSize)
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &models.Attachment{
		ID:          id,
		EntityType:  entityType,
		EntityID:    entityID,
		FileName:    fileName,
		StoragePath: rel,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Open returns the stored file for streaming back to a client.
func (d *Disk) Open(att *models.Attachment) (*os.File, error) {
	f, err := os.Open(filepath.Join(d.root, filepath.Clean(att.StoragePath)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return f, nil
}

// Remove deletes the on-disk file. A missing file is not an error: the
// metadata row is being removed either way.
func (d *Disk) Remove(att *models.Attachment) error {
	err := os.Remove(filepath.Join(d.root, filepath.Clean(att.StoragePath)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}

// PublicURL is the path the router serves the attachment under.
func PublicURL(att *models.Attachment) string {
	return "/files/" + att.ID.String()
}

// safeExt keeps a short, lowercase extension and drops anything odd.
func safeExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
