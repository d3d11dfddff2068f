package models

import "errors"

var (
	// ErrNotFound reports a missing target or referenced row.
	ErrNotFound = errors.New("not found")
	// ErrForbidden reports an ownership mismatch.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation reports a field constraint violation.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated reports a missing or invalid bearer credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUserExists reports a signup with an email that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials reports a login with a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error is a caller-facing failure. Message is safe to return to clients;
// Kind is one of the sentinel errors above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the sentinel kind to errors.Is.
func (e *Error) Unwrap() error { return e.Kind }

// NotFound builds an ErrNotFound with a client message.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// Forbidden builds an ErrForbidden with a client message.
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// Invalid builds an ErrValidation with a client message.
func Invalid(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }
