package job

import (
	"strings"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
)

// ===============================
// Job Status
// ===============================

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var allStatuses = []Status{
	StatusScheduled,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

var transitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// ===============================
// Parsing
// ===============================

func ValidStatuses() []string {
	out := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		out[i] = string(s)
	}
	return out
}

// ParseStatus accepts any casing and "_" or " " as separators:
// "COMPLETED", "In Progress" and "in_progress" are all valid input.
func ParseStatus(raw string) (Status, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	if s == "inprogress" {
		s = string(StatusInProgress)
	}
	for _, st := range allStatuses {
		if Status(s) == st {
			return st, nil
		}
	}
	return "", httperr.ErrInvalidStatus(ValidStatuses())
}

// ===============================
// Validations
// ===============================

func InitialStatus() Status {
	return StatusScheduled
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether from → to is an edge of the lifecycle graph.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
