package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Status enumerates a task's lifecycle states.
type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// Priority enumerates task priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	maxTitleLength = 140
	maxBodyLength  = 4000
)

// ErrNotFound reports a lookup for a task id that does not exist.
var ErrNotFound = errors.New("task not found")

// Task is one tracked item.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Priority  Priority   `json:"priority"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTask carries the caller-supplied fields of a task to create.
type NewTask struct {
	Title    string     `json:"title"`
	Body     string     `json:"body,omitempty"`
	DueAt    *time.Time `json:"due_at,omitempty"`
	Priority Priority   `json:"priority,omitempty"`
}

// Validate normalizes and checks the payload, defaulting priority to
// medium.
func (n *NewTask) Validate() error {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return errors.New("title must not be empty")
	}
	if utf8.RuneCountInString(n.Title) > maxTitleLength {
		return fmt.Errorf("title exceeds %d characters", maxTitleLength)
	}
	if utf8.RuneCountInString(n.Body) > maxBodyLength {
		return fmt.Errorf("body exceeds %d characters", maxBodyLength)
	}
	switch n.Priority {
	case "":
		n.Priority = PriorityMedium
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return fmt.Errorf("priority must be one of low, medium, high; got %q", n.Priority)
	}
	return nil
}
