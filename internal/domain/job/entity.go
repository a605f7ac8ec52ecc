package job

import (
	"time"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves j to the target status. It returns false without touching
// j when the job is already in that status. force skips the graph check and
// is reserved for admin corrections.
func Transition(j *models.Job, to Status, now time.Time, force bool) (bool, error) {
	from := Current(j)
	if from == to {
		return false, nil
	}

	if !force && !CanTransition(from, to) {
		return false, httperr.ErrBusinessMsg(
			httperr.CodeInvalidTransition,
			"Cannot move job from "+string(from)+" to "+string(to)+".",
		)
	}

	j.Status = string(to)
	j.UpdatedAt = now

	switch {
	case to == StatusCompleted:
		j.CompletedAt = &now
		j.FollowUpSent = false
	case from == StatusCompleted:
		j.CompletedAt = nil
	}

	return true, nil
}

// Current returns the canonical status of j, tolerating legacy casing.
func Current(j *models.Job) Status {
	if st, err := ParseStatus(j.Status); err == nil {
		return st
	}
	return Status(j.Status)
}
