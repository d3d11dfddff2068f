package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/GophTasks/internal/models"
)

// UserExists checks whether a user with the specified email exists.
func (q *Queries) UserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := q.db.QueryRowxContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("UserExists: %w", err)
	}
	return exists, nil
}

// CreateUser inserts a new user and returns its id. A concurrent signup with
// the same email surfaces as models.ErrUserExists.
func (q *Queries) CreateUser(ctx context.Context, name, email string, passwordHash []byte) (int64, error) {
	var id int64
	err := q.db.QueryRowxContext(
		ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
		name, email, passwordHash,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, models.ErrUserExists
	}
	if err != nil {
		return 0, fmt.Errorf("CreateUser: %w", err)
	}
	return id, nil
}

// GetUserByEmail loads a user with its password hash.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := q.get(ctx, &u, "GetUserByEmail",
		`SELECT id, name, email, password, created_at FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
