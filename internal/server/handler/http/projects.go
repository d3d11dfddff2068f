package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTasks/internal/models"
)

// ProjectService defines the project operations used by ProjectHandler.
type ProjectService interface {
	Recent(ctx context.Context, userID int64) ([]models.Project, error)
	List(ctx context.Context, userID int64) ([]models.Project, error)
	Get(ctx context.Context, userID, id int64) (*models.ProjectDetail, error)
	Create(ctx context.Context, userID int64, in models.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, userID, id int64, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, userID, id int64) error
}

// ProjectHandler serves the /project routes.
type ProjectHandler struct {
	ProjectService ProjectService
	Log            *zap.Logger
}

// Recent returns the five most recently created projects with todo counts.
func (h *ProjectHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	projects, err := h.ProjectService.Recent(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err, "Failed to fetch projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// List returns every project of the caller, newest first.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	projects, err := h.ProjectService.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err, "Failed to fetch projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get returns one project with its todos and their tags.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	project, err := h.ProjectService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.Log, err, "Failed to fetch project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Create stores a new project owned by the caller.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.ProjectInput
	if !decodeJSON(w, r, &in) {
		return
	}
	project, err := h.ProjectService.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.Log, err, "Failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// Update patches a project. Blank fields keep their stored values.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.ProjectPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	project, err := h.ProjectService.Update(r.Context(), userID, id, patch)
	if err != nil {
		writeError(w, h.Log, err, "Failed to update project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete removes a project together with its todos.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.ProjectService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.Log, err, "Failed to delete project")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Project deleted successfully"})
}
