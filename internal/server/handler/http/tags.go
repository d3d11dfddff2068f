package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTasks/internal/models"
)

// TagService defines the tag operations used by TagHandler.
type TagService interface {
	List(ctx context.Context, userID int64) ([]models.Tag, error)
	Create(ctx context.Context, userID int64, in models.TagInput) (*models.Tag, error)
	Delete(ctx context.Context, userID, id int64) error
}

// TagHandler serves the /tag routes.
type TagHandler struct {
	TagService TagService
	Log        *zap.Logger
}

// List returns the predefined tags followed by the caller's own.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	tags, err := h.TagService.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err, "Failed to fetch tags")
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// Create stores a custom tag for the caller.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.TagInput
	if !decodeJSON(w, r, &in) {
		return
	}
	tag, err := h.TagService.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.Log, err, "Failed to create tag")
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// Delete removes one of the caller's custom tags.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.TagService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.Log, err, "Failed to delete tag")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Tag deleted successfully"})
}
