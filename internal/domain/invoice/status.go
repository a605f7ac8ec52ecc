package invoice

import (
	"strings"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
)

type Status string

const (
	StatusUnpaid    Status = "unpaid"
	StatusPaid      Status = "paid"
	StatusPartial   Status = "partial"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

var allStatuses = []Status{
	StatusPaid,
	StatusUnpaid,
	StatusPartial,
	StatusOverdue,
	StatusCancelled,
}

func ValidStatuses() []string {
	out := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		out[i] = string(s)
	}
	return out
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, st := range allStatuses {
		if s == st {
			return st, nil
		}
	}
	return "", httperr.ErrInvalidStatus(ValidStatuses())
}

// Open reports whether the invoice still expects a payment.
func (s Status) Open() bool {
	return s == StatusUnpaid || s == StatusPartial || s == StatusOverdue
}
