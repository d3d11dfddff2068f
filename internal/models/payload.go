package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SignupRequest is the JSON payload of POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProjectInput carries the fields of a new project.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// ProjectPatch carries a partial project update. A nil or blank field keeps
// the stored value.
type ProjectPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// TodoInput carries the fields of a new todo.
type TodoInput struct {
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Description string     `json:"description"`
	ProjectID   NullableID `json:"projectId"`
	TagIDs      IDList     `json:"tagIds"`
}

// TodoPatch carries a partial todo update. Text fields follow the same
// keep-if-blank rule as ProjectPatch; ProjectID and TagIDs distinguish an
// absent key from an explicit null or empty list.
type TodoPatch struct {
	Name        *string    `json:"name"`
	Title       *string    `json:"title"`
	Status      *string    `json:"status"`
	Description *string    `json:"description"`
	ProjectID   NullableID `json:"projectId"`
	TagIDs      IDList     `json:"tagIds"`
}

// TagInput carries the fields of a new custom tag.
type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NullableID is a JSON id that remembers whether the key was present.
// Null, 0 and "" decode as present but not Valid.
type NullableID struct {
	Set   bool
	Valid bool
	ID    int64
}

// UnmarshalJSON accepts a number, a numeric string or null.
func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Valid, n.ID = false, 0
		return nil
	}
	id, err := parseID(data)
	if err != nil {
		return err
	}
	n.ID = id
	n.Valid = id != 0
	return nil
}

// Ptr returns the id as a nullable column value.
func (n NullableID) Ptr() *int64 {
	if !n.Valid {
		return nil
	}
	id := n.ID
	return &id
}

// IDList is a JSON array of ids that remembers whether the key was present.
// An explicit null is treated as an empty list.
type IDList struct {
	Set bool
	IDs []int64
}

// UnmarshalJSON accepts an array of numbers or numeric strings, or null.
func (l *IDList) UnmarshalJSON(data []byte) error {
	l.Set = true
	l.IDs = nil
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("ids must be an array: %w", err)
	}
	for _, item := range raw {
		id, err := parseID(item)
		if err != nil {
			return err
		}
		l.IDs = append(l.IDs, id)
	}
	return nil
}

// MarshalJSON writes the ids as a plain array.
func (l IDList) MarshalJSON() ([]byte, error) {
	if l.IDs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.IDs)
}

// parseID decodes a number or a numeric string. An empty string is 0.
func parseID(data []byte) (int64, error) {
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, fmt.Errorf("invalid id %s: %w", data, err)
		}
		if s == "" {
			return 0, nil
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %s", data)
	}
	return id, nil
}
