package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTasks/internal/models"
)

// TodoService defines the todo operations used by TodoHandler.
type TodoService interface {
	List(ctx context.Context, userID int64) ([]models.Todo, error)
	Create(ctx context.Context, userID int64, in models.TodoInput) (*models.Todo, error)
	Update(ctx context.Context, userID, id int64, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}

// TodoHandler serves the /todo routes.
type TodoHandler struct {
	TodoService TodoService
	Log         *zap.Logger
}

// List returns the caller's todos with their project and tags.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	todos, err := h.TodoService.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err, "Failed to fetch todos")
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

// Create stores a todo, optionally linked to a project and tags.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.TodoInput
	if !decodeJSON(w, r, &in) {
		return
	}
	todo, err := h.TodoService.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.Log, err, msgInternal)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// Update patches a todo. Omitted fields keep their stored values.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.TodoPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	todo, err := h.TodoService.Update(r.Context(), userID, id, patch)
	if err != nil {
		writeError(w, h.Log, err, "Failed to update todo")
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// Delete removes a todo and its tag links.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.TodoService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.Log, err, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Todo deleted successfully"})
}
