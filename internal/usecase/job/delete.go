package job

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/domain"
	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

// DeleteJob hides the job from reads. The row stays so invoices and
// activity history keep resolving it.
type DeleteJob struct {
	repo jobdomain.Repository
	fx   usecase.Effects
}

func NewDeleteJob(repo jobdomain.Repository, fx usecase.Effects) *DeleteJob {
	return &DeleteJob{repo: repo, fx: fx}
}

func (uc *DeleteJob) Execute(ctx context.Context, actor usecase.Actor, jobID uint) error {
	err := uc.repo.SoftDeleteJob(ctx, jobID)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if err != nil {
		return err
	}

	uc.fx.Record(audit.Event{
		ActorID:    actor.Ref(),
		Action:     "job_deleted",
		EntityType: "job",
		EntityID:   audit.ID(jobID),
	})
	uc.fx.Emit(ctx, realtime.EventJobUpdated, map[string]any{
		"id":      jobID,
		"deleted": true,
	}, realtime.RoomAdmin, realtime.RoomStaff)

	return nil
}
