// Package models defines the core data structures for users, projects,
// todos and tags, plus the request payloads that create or patch them.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id" db:"id"`
	// Name is the display name chosen at signup.
	Name string `json:"name" db:"name"`
	// Email is the unique login of the user.
	Email string `json:"email" db:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte `json:"-" db:"password"`
	// CreatedAt is the signup time.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// UserSummary is the part of a User that is returned to clients.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is returned by a successful login.
type Session struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// Project groups todos for a single owner.
type Project struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	UserID      int64     `json:"userId" db:"user_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Count is only filled by the recent-projects listing.
	Count *ProjectCount `json:"_count,omitempty" db:"-"`
}

// ProjectCount carries aggregate counters for a project.
type ProjectCount struct {
	Todos int `json:"todos"`
}

// ProjectDetail is a project together with its todos and their tags.
type ProjectDetail struct {
	Project
	Todos []Todo `json:"todos"`
}

// TodoStatus is the lifecycle state of a todo.
type TodoStatus string

const (
	// StatusUrgent marks a todo that needs attention first.
	StatusUrgent TodoStatus = "URGENT"
	// StatusOngoing is the default state of a new todo.
	StatusOngoing TodoStatus = "ONGOING"
	// StatusCompleted marks a finished todo.
	StatusCompleted TodoStatus = "COMPLETED"
)

// Statuses lists every accepted todo status.
var Statuses = []TodoStatus{StatusUrgent, StatusOngoing, StatusCompleted}

// Todo is a unit of work owned by a user and optionally linked to a project.
type Todo struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Title       string     `json:"title" db:"title"`
	Status      TodoStatus `json:"status" db:"status"`
	Description *string    `json:"description" db:"description"`
	UserID      int64      `json:"userId" db:"user_id"`
	ProjectID   *int64     `json:"projectId" db:"project_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Project and Tags are populated by listing queries.
	Project *Project `json:"project,omitempty" db:"-"`
	Tags    []Tag    `json:"tags" db:"-"`
}

// TagType tells global tags apart from user-defined ones.
type TagType string

const (
	// TagPredefined tags are global, visible to everyone and never deletable.
	TagPredefined TagType = "PREDEFINED"
	// TagCustom tags belong to exactly one user.
	TagCustom TagType = "CUSTOM"
)

// Tag labels todos. A nil UserID marks a global tag.
type Tag struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	Type      TagType   `json:"type" db:"type"`
	UserID    *int64    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TodoTag links a todo to a tag.
type TodoTag struct {
	TodoID int64 `db:"todo_id"`
	TagID  int64 `db:"tag_id"`
}

// PredefinedTag describes a global tag seeded at startup.
type PredefinedTag struct {
	Name  string
	Color string
}

// PredefinedTags is the fixed set of global tags.
var PredefinedTags = []PredefinedTag{
	{Name: "Backend", Color: "#3B82F6"},
	{Name: "Frontend", Color: "#10B981"},
	{Name: "Testing", Color: "#F59E0B"},
	{Name: "Design", Color: "#EC4899"},
	{Name: "Documentation", Color: "#8B5CF6"},
	{Name: "DevOps", Color: "#EF4444"},
	{Name: "Database", Color: "#06B6D4"},
}

const (
	// DefaultProjectColor is used when a project is created without a color.
	DefaultProjectColor = "#3B82F6"
	// DefaultTagColor is used when a tag is created without a color.
	DefaultTagColor = "#6B7280"
	// RecentProjectsLimit caps the recent-projects listing.
	RecentProjectsLimit = 5
)
