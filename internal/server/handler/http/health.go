package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// pingTimeout bounds the database probe of a health check.
const pingTimeout = 2 * time.Second

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	DB  Pinger
	Log *zap.Logger
}

// Check answers 200 when the database responds to a ping and 503 otherwise.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		if h.Log != nil {
			h.Log.Warn("health check failed", zap.Error(err))
		}
		writeMessage(w, http.StatusServiceUnavailable, msgDBUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
