package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/GophTasks/internal/ai"
	"github.com/atinyakov/GophTasks/internal/middleware"
	"github.com/atinyakov/GophTasks/internal/models"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

const (
	msgInternal      = "Internal server error"
	msgInvalidBody   = "Invalid request body"
	msgBodyTooLarge  = "Request body too large"
	msgInvalidID     = "Invalid ID"
	msgAINotSetUp    = "AI service not configured. Please add PERPLEXITY_API_KEY to environment variables."
	msgAITimeout     = "Request timeout. Please try again."
	msgAIUpstream    = "AI service error"
	msgDBUnavailable = "Database unavailable"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError answers with the status and message matching err. Errors that
// carry no client-safe message are logged and answered with fallback.
func writeError(w http.ResponseWriter, log *zap.Logger, err error, fallback string) {
	var (
		merr     *models.Error
		upstream *ai.UpstreamError
		invalid  *ai.InvalidOutputError
	)
	switch {
	case errors.As(err, &merr):
		writeMessage(w, statusOf(merr.Kind), merr.Message)
	case errors.Is(err, ai.ErrNotConfigured):
		writeMessage(w, http.StatusServiceUnavailable, msgAINotSetUp)
	case errors.Is(err, ai.ErrTimeout):
		writeMessage(w, http.StatusGatewayTimeout, msgAITimeout)
	case errors.As(err, &upstream):
		writeMessage(w, http.StatusBadGateway, msgAIUpstream)
	case errors.As(err, &invalid):
		writeMessage(w, http.StatusInternalServerError, invalid.Reason)
	default:
		if log != nil {
			log.Error(fallback, zap.Error(err))
		}
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}

func statusOf(kind error) int {
	switch kind {
	case models.ErrNotFound:
		return http.StatusNotFound
	case models.ErrForbidden:
		return http.StatusForbidden
	case models.ErrUnauthenticated:
		return http.StatusUnauthorized
	case models.ErrValidation, models.ErrUserExists, models.ErrInvalidCredentials:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a size-limited JSON body into dst. On failure it has
// already answered the request and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return false
		}
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

// pathID parses the {id} route parameter as a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}

// currentUser returns the id BearerAuth stored in the request context.
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == 0 {
		writeMessage(w, http.StatusUnauthorized, "Authorization token required")
		return 0, false
	}
	return userID, true
}
