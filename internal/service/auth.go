// Package service provides the business logic of the API: signup and login,
// and the project, todo and tag managers.
package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/GophTasks/internal/models"
	"github.com/atinyakov/GophTasks/internal/validation"
)

// maxPasswordBytes is the input limit of bcrypt.
const maxPasswordBytes = 72

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given email exists.
	UserExists(ctx context.Context, email string) (bool, error)
	// CreateUser stores a new user and returns its id.
	CreateUser(ctx context.Context, name, email string, passwordHash []byte) (int64, error)
	// GetUserByEmail loads a user including its password hash.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenIssuer signs a bearer token for a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// AuthService implements signup and login.
type AuthService struct {
	repo   AuthRepository
	tokens TokenIssuer
	cost   int
}

// NewAuthService constructs an AuthService using the provided repository
// and token issuer.
func NewAuthService(repo AuthRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, cost: bcrypt.DefaultCost}
}

var errUserExists = &models.Error{Kind: models.ErrUserExists, Message: "User already exists"}

// Signup registers a new user and returns its id.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (int64, error) {
	name, err := validation.UserName.Clean(req.Name)
	if err != nil {
		return 0, err
	}
	email, err := validation.UserEmail.Clean(req.Email)
	if err != nil {
		return 0, err
	}
	if req.Password == "" {
		return 0, models.Invalid("Password is required")
	}
	if len(req.Password) > maxPasswordBytes {
		return 0, models.Invalid(fmt.Sprintf("Password must be %d bytes or less", maxPasswordBytes))
	}

	exists, err := s.repo.UserExists(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, errUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, name, email, hash)
	if errors.Is(err, models.ErrUserExists) {
		return 0, errUserExists
	}
	return id, err
}

// Login checks the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	email, err := validation.UserEmail.Clean(req.Email)
	if err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, models.Invalid("Password is required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		return nil, &models.Error{Kind: models.ErrInvalidCredentials, Message: "Invalid credentials"}
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &models.Session{
		Token: token,
		User:  models.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email},
	}, nil
}
