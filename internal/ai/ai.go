// Package ai suggests tasks and writes project summaries with a hosted
// chat-completion model. Model output is treated as untrusted input and is
// re-validated before it reaches a caller.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTasks/internal/metrics"
	"github.com/atinyakov/GophTasks/internal/models"
)

// placeholderKey is the value shipped in sample env files.
const placeholderKey = "your-perplexity-api-key-here"

var (
	// ErrNotConfigured reports a missing or placeholder API key.
	ErrNotConfigured = errors.New("AI service not configured")
	// ErrTimeout reports a provider call that ran past its deadline.
	ErrTimeout = errors.New("AI request timed out")
	// ErrInvalidOutput reports a completion that could not be used.
	ErrInvalidOutput = errors.New("invalid AI output")
)

// UpstreamError is a transport failure or a non-2xx provider response.
type UpstreamError struct {
	// Status is the provider's HTTP status, or 0 when no response arrived.
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return "AI upstream error: " + e.Message
	}
	return fmt.Sprintf("AI upstream error (%d): %s", e.Status, e.Message)
}

// InvalidOutputError carries a client-safe reason for rejecting a
// completion. It matches ErrInvalidOutput.
type InvalidOutputError struct {
	Reason string
}

func (e *InvalidOutputError) Error() string { return e.Reason }

// Is makes errors.Is(err, ErrInvalidOutput) hold.
func (e *InvalidOutputError) Is(target error) bool { return target == ErrInvalidOutput }

// Config selects the provider account and limits.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// IsConfigured reports whether the key is usable.
func (c Config) IsConfigured() bool {
	key := strings.TrimSpace(c.APIKey)
	return key != "" && key != placeholderKey
}

// TaskSuggestion is one sanitised task proposed by the model.
type TaskSuggestion struct {
	Name            string            `json:"name"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	SuggestedStatus models.TodoStatus `json:"suggestedStatus"`
	SuggestedTags   []string          `json:"suggestedTags"`
}

// TaskBrief describes an existing task in a summary request.
type TaskBrief struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

const (
	opGenerateTasks   = "generate_tasks"
	opGenerateSummary = "generate_summary"
)

// Gateway runs prompts through a Completer and validates the results.
type Gateway struct {
	cfg       Config
	completer Completer
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// NewGateway wires a Gateway. m may be nil; a nil log discards output.
func NewGateway(cfg Config, completer Completer, m *metrics.Metrics, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{cfg: cfg, completer: completer, metrics: m, log: log}
}

// GenerateTasks asks the model for task suggestions for a project.
func (g *Gateway) GenerateTasks(ctx context.Context, projectName, projectDescription string) ([]TaskSuggestion, error) {
	name := strings.TrimSpace(projectName)
	if name == "" {
		return nil, models.Invalid("Project name is required")
	}

	raw, err := g.complete(ctx, opGenerateTasks, tasksPrompt(name, strings.TrimSpace(projectDescription)))
	if err != nil {
		return nil, err
	}

	tasks, err := ParseTasks(raw)
	if err != nil {
		g.log.Warn("discarding AI task output", zap.Error(err), zap.Int("length", len(raw)))
		g.metrics.ObserveAI(opGenerateTasks, outcome(err))
		return nil, err
	}
	g.metrics.ObserveAI(opGenerateTasks, "ok")
	return tasks, nil
}

// GenerateSummary asks the model for a short three-part project summary.
func (g *Gateway) GenerateSummary(ctx context.Context, projectName, projectDescription string, tasks []TaskBrief) (string, error) {
	name := strings.TrimSpace(projectName)
	if name == "" {
		return "", models.Invalid("Project name is required")
	}

	raw, err := g.complete(ctx, opGenerateSummary, summaryPrompt(name, strings.TrimSpace(projectDescription), tasks))
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(raw)
	if summary == "" {
		err := &InvalidOutputError{Reason: "AI returned empty response. Please try again."}
		g.metrics.ObserveAI(opGenerateSummary, outcome(err))
		return "", err
	}
	g.metrics.ObserveAI(opGenerateSummary, "ok")
	return summary, nil
}

// complete checks the configuration, then runs one bounded provider call.
func (g *Gateway) complete(ctx context.Context, op, prompt string) (string, error) {
	if !g.cfg.IsConfigured() {
		g.metrics.ObserveAI(op, outcome(ErrNotConfigured))
		return "", ErrNotConfigured
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		g.log.Error("AI provider call failed", zap.String("operation", op), zap.Error(err))
		g.metrics.ObserveAI(op, outcome(err))
		return "", err
	}
	return raw, nil
}

func outcome(err error) string {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.As(err, &upstream):
		return "upstream_error"
	case errors.Is(err, ErrInvalidOutput):
		return "invalid_output"
	default:
		return "error"
	}
}
