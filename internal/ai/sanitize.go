package ai

import (
	"encoding/json"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atinyakov/GophTasks/internal/models"
	"github.com/atinyakov/GophTasks/internal/validation"
)

const (
	maxTaskName        = 100
	maxTaskTitle       = 200
	maxTaskDescription = 1000

	parseFailedReason = "Failed to parse AI response. Please try again."
)

var (
	listSchema = jsonschema.MustCompileString("task-list.json", `{"type": "array"}`)

	// itemSchema admits objects whose name, title and description are
	// strings with at least one non-space character.
	itemSchema = jsonschema.MustCompileString("task-item.json", `{
		"type": "object",
		"required": ["name", "title", "description"],
		"properties": {
			"name":        {"type": "string", "pattern": "\\S"},
			"title":       {"type": "string", "pattern": "\\S"},
			"description": {"type": "string", "pattern": "\\S"}
		}
	}`)
)

// ParseTasks turns a raw completion into sanitised suggestions. Items that
// fail the item schema are dropped; the rest are truncated, get a valid
// status and keep only known tag names. No surviving item is an error.
func ParseTasks(raw string) ([]TaskSuggestion, error) {
	text := stripCodeFences(raw)

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &InvalidOutputError{Reason: parseFailedReason}
	}
	if err := listSchema.Validate(doc); err != nil {
		return nil, &InvalidOutputError{Reason: "Invalid response format from AI"}
	}

	known := make(map[string]bool, len(models.PredefinedTags))
	for _, t := range models.PredefinedTags {
		known[t.Name] = true
	}

	var tasks []TaskSuggestion
	for _, item := range doc.([]any) {
		if itemSchema.Validate(item) != nil {
			continue
		}
		tasks = append(tasks, sanitize(item.(map[string]any), known))
	}

	if len(tasks) == 0 {
		return nil, &InvalidOutputError{Reason: "No valid tasks generated"}
	}
	return tasks, nil
}

func sanitize(item map[string]any, known map[string]bool) TaskSuggestion {
	status, _ := item["suggestedStatus"].(string)
	task := TaskSuggestion{
		Name:            validation.Truncate(strings.TrimSpace(item["name"].(string)), maxTaskName),
		Title:           validation.Truncate(strings.TrimSpace(item["title"].(string)), maxTaskTitle),
		Description:     validation.Truncate(strings.TrimSpace(item["description"].(string)), maxTaskDescription),
		SuggestedStatus: validation.Status(status, models.StatusOngoing),
		SuggestedTags:   []string{},
	}

	if tags, ok := item["suggestedTags"].([]any); ok {
		for _, t := range tags {
			if name, ok := t.(string); ok && known[name] {
				task.SuggestedTags = append(task.SuggestedTags, name)
			}
		}
	}
	return task
}

func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
