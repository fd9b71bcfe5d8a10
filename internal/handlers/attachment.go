package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
	"github.com/JoelBonito/gestion-chs-sub001/internal/storage"
)

type AttachmentHandler struct {
	DB    *gorm.DB
	Files *storage.Disk
}

func NewAttachmentHandler(db *gorm.DB, files *storage.Disk) *AttachmentHandler {
	return &AttachmentHandler{DB: db, Files: files}
}

// Upload accepts a multipart form with a "file" part, keyed by the
// entity_type/entity_id form fields.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_upload", nil)
		return
	}
	entityType := r.FormValue("entity_type")
	if !models.IsAttachmentEntityType(entityType) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_entity_type", nil)
		return
	}
	entityID, err := uuid.Parse(r.FormValue("entity_id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "missing_file", nil)
		return
	}
	defer file.Close()

	att, err := h.Files.Save(entityType, entityID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "upload_failed", nil)
		return
	}
	if err := h.DB.WithContext(r.Context()).Create(att).Error; err != nil {
		_ = h.Files.Remove(att)
		httpx.JSONError(w, http.StatusInternalServerError, "upload_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"attachment": att,
		"url":        storage.PublicURL(att),
	})
}

// List returns the attachments of one entity with their public URLs.
func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("entity_type")
	if !models.IsAttachmentEntityType(entityType) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_entity_type", nil)
		return
	}
	entityID, err := uuid.Parse(r.URL.Query().Get("entity_id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var atts []models.Attachment
	if err := h.DB.WithContext(r.Context()).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at desc").
		Find(&atts).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_attachments", nil)
		return
	}
	type attView struct {
		models.Attachment
		URL string `json:"url"`
	}
	views := make([]attView, 0, len(atts))
	for _, a := range atts {
		views = append(views, attView{Attachment: a, URL: storage.PublicURL(&a)})
	}
	httpx.JSON(w, http.StatusOK, views)
}

// Serve streams the stored file under /files/{id}.
func (h *AttachmentHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var att models.Attachment
	if err := h.DB.WithContext(r.Context()).First(&att, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	f, err := h.Files.Open(&att)
	if errors.Is(err, storage.ErrFileNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_open_file", nil)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", att.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", att.FileName))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, att.FileName, att.CreatedAt, f)
}

// Delete removes metadata and file; attachments are hard-deleted.
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var att models.Attachment
	if err := h.DB.WithContext(r.Context()).First(&att, "id = ?", id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err := h.DB.WithContext(r.Context()).Delete(&att).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "attachment_delete_failed", nil)
		return
	}
	if err := h.Files.Remove(&att); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "attachment_delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
