// Package validation holds the field rules shared by the create and update
// paths of every resource, and by the AI output sanitiser.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/atinyakov/GophTasks/internal/models"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Field is a declarative rule for a free-text field.
type Field struct {
	// Label names the field in error messages.
	Label string
	// Required rejects values that are blank after trimming.
	Required bool
	// Max is the maximum length in runes; zero means unbounded.
	Max int
}

// Rules for the text fields of each entity.
var (
	// ProjectName is a required project name of up to 100 runes.
	ProjectName = Field{Label: "Project name", Required: true, Max: 100}
	// ProjectDescription is an optional description of up to 1000 runes.
	ProjectDescription = Field{Label: "Description", Max: 1000}
	// TodoName is the required short name of a todo.
	TodoName = Field{Label: "Name", Required: true}
	// TodoTitle is the required title of a todo.
	TodoTitle = Field{Label: "Title", Required: true}
	// TodoDescription is an optional free-text todo description.
	TodoDescription = Field{Label: "Description"}
	// TagName is a required tag name of up to 30 runes.
	TagName = Field{Label: "Tag name", Required: true, Max: 30}
	// UserName is the required display name given at signup.
	UserName = Field{Label: "Name", Required: true, Max: 100}
	// UserEmail is the required login email.
	UserEmail = Field{Label: "Email", Required: true, Max: 254}
)

// Clean trims v and checks it against the rule.
func (f Field) Clean(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		if f.Required {
			return "", models.Invalid(f.Label + " is required")
		}
		return "", nil
	}
	if f.Max > 0 && utf8.RuneCountInString(v) > f.Max {
		return "", models.Invalid(fmt.Sprintf("%s must be %d characters or less", f.Label, f.Max))
	}
	return v, nil
}

// Merge applies a partial update: a nil or blank patch value keeps current,
// anything else is cleaned with the rule.
func (f Field) Merge(patch *string, current string) (string, error) {
	if patch == nil || strings.TrimSpace(*patch) == "" {
		return current, nil
	}
	return f.Clean(*patch)
}

// Optional cleans v and returns nil for a blank value.
func (f Field) Optional(v string) (*string, error) {
	clean, err := f.Clean(v)
	if err != nil || clean == "" {
		return nil, err
	}
	return &clean, nil
}

// Color validates a "#RRGGBB" color. An empty value yields fallback.
func Color(v, fallback string) (string, error) {
	if v == "" {
		return fallback, nil
	}
	if !colorPattern.MatchString(v) {
		return "", models.Invalid("Invalid color format. Use hex color (e.g., #FF5733)")
	}
	return v, nil
}

// Status maps v onto the todo status enum. Unknown or blank values yield
// fallback instead of an error.
func Status(v string, fallback models.TodoStatus) models.TodoStatus {
	v = strings.TrimSpace(v)
	for _, s := range models.Statuses {
		if string(s) == v {
			return s
		}
	}
	return fallback
}

// IDs removes duplicates while keeping the first-seen order.
func IDs(ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, models.Invalid(fmt.Sprintf("Invalid id %d", id))
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// Truncate cuts v to at most n runes.
func Truncate(v string, n int) string {
	if utf8.RuneCountInString(v) <= n {
		return v
	}
	return string([]rune(v)[:n])
}
