// Package http provides the HTTP handlers, error envelope and routing of the
// task service.
package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTasks/internal/models"
)

// AuthService defines the account operations required by the HTTP handlers.
type AuthService interface {
	// Signup creates an account and returns its id.
	Signup(context.Context, models.SignupRequest) (int64, error)
	// Login checks credentials and issues a bearer token.
	Login(context.Context, models.LoginRequest) (*models.Session, error)
}

// AuthHandler handles HTTP requests for signup and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	Log         *zap.Logger
}

type loginResponse struct {
	Token   string             `json:"token"`
	User    models.UserSummary `json:"user"`
	Message string             `json:"message"`
}

// Signup handles POST /auth/signup. It expects name, email and password and
// answers 201 once the account is stored.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.AuthService.Signup(r.Context(), req); err != nil {
		writeError(w, h.Log, err, msgInternal)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Account Created"})
}

// Login handles POST /auth/login and returns a bearer token together with
// the user's public profile.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.AuthService.Login(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, err, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:   session.Token,
		User:    session.User,
		Message: "Login successful",
	})
}
