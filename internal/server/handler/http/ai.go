package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTasks/internal/ai"
)

// AIService defines the assistant operations used by AIHandler.
type AIService interface {
	GenerateTasks(ctx context.Context, projectName, projectDescription string) ([]ai.TaskSuggestion, error)
	GenerateSummary(ctx context.Context, projectName, projectDescription string, tasks []ai.TaskBrief) (string, error)
}

// AIHandler serves the /ai routes.
type AIHandler struct {
	AIService AIService
	Log       *zap.Logger
}

type generateTasksRequest struct {
	ProjectName        string `json:"projectName"`
	ProjectDescription string `json:"projectDescription"`
}

type generateSummaryRequest struct {
	ProjectName        string         `json:"projectName"`
	ProjectDescription string         `json:"projectDescription"`
	Tasks              []ai.TaskBrief `json:"tasks"`
}

// GenerateTasks answers {"tasks": [...]} with sanitised task suggestions.
func (h *AIHandler) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	var req generateTasksRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tasks, err := h.AIService.GenerateTasks(r.Context(), req.ProjectName, req.ProjectDescription)
	if err != nil {
		writeError(w, h.Log, err, "Failed to generate tasks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// GenerateSummary answers {"summary": "..."}.
func (h *AIHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req generateSummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	summary, err := h.AIService.GenerateSummary(r.Context(), req.ProjectName, req.ProjectDescription, req.Tasks)
	if err != nil {
		writeError(w, h.Log, err, "Failed to generate summary")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
