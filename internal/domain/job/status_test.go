package job

import (
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

func TestParseStatusNormalizes(t *testing.T) {
	cases := map[string]Status{
		"COMPLETED":   StatusCompleted,
		"In Progress": StatusInProgress,
		"in_progress": StatusInProgress,
		"InProgress":  StatusInProgress,
		" scheduled ": StatusScheduled,
		"Cancelled":   StatusCancelled,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	_, err := ParseStatus("done")

	var be httperr.BusinessError
	if !errors.As(err, &be) || be.Code != httperr.CodeInvalidStatus {
		t.Fatalf("expected INVALID_STATUS, got %v", err)
	}
	if len(be.ValidStatuses) != len(allStatuses) {
		t.Fatalf("expected valid statuses, got %v", be.ValidStatuses)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusScheduled, StatusInProgress},
		{StatusScheduled, StatusCancelled},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusCancelled},
	}
	for _, e := range allowed {
		if !CanTransition(e[0], e[1]) {
			t.Errorf("expected %s -> %s to be allowed", e[0], e[1])
		}
	}

	denied := [][2]Status{
		{StatusScheduled, StatusCompleted},
		{StatusCompleted, StatusScheduled},
		{StatusCompleted, StatusInProgress},
		{StatusCancelled, StatusScheduled},
		{StatusInProgress, StatusScheduled},
	}
	for _, e := range denied {
		if CanTransition(e[0], e[1]) {
			t.Errorf("expected %s -> %s to be denied", e[0], e[1])
		}
	}
}

func TestTransitionSetsAndClearsCompletedAt(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	j := &models.Job{Status: "In_Progress", FollowUpSent: true}

	changed, err := Transition(j, StatusCompleted, now, false)
	if err != nil || !changed {
		t.Fatalf("expected change, got %v %v", changed, err)
	}
	if j.CompletedAt == nil || !j.CompletedAt.Equal(now) || j.FollowUpSent {
		t.Fatalf("expected completed_at set and follow-up reset, got %+v", j)
	}

	changed, err = Transition(j, StatusCompleted, now.Add(time.Hour), false)
	if err != nil || changed {
		t.Fatalf("same status must be a no-op, got %v %v", changed, err)
	}

	changed, err = Transition(j, StatusInProgress, now, true)
	if err != nil || !changed {
		t.Fatalf("forced change failed: %v %v", changed, err)
	}
	if j.CompletedAt != nil {
		t.Fatal("leaving completed must clear completed_at")
	}
}
