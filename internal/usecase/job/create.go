package job

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/notify"
	"github.com/BruksfildServices01/fieldops/internal/timezone"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
	"github.com/BruksfildServices01/fieldops/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateJobInput struct {
	CustomerID uint
	ServiceID  uint
	AssignedTo *uint

	JobDate  string
	JobTime  string
	Location string
	Notes    string
}

// ======================================================
// USE CASE
// ======================================================

type CreateJob struct {
	repo jobdomain.Repository
	fx   usecase.Effects
}

func NewCreateJob(repo jobdomain.Repository, fx usecase.Effects) *CreateJob {
	return &CreateJob{repo: repo, fx: fx}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateJob) Execute(
	ctx context.Context,
	actor usecase.Actor,
	in CreateJobInput,
) (*models.Job, error) {

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	date, err := timezone.ParseDate(strings.TrimSpace(in.JobDate))
	if err != nil {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "job_date must be YYYY-MM-DD.")
	}
	jobTime := strings.TrimSpace(in.JobTime)
	if jobTime != "" && !validators.IsClock(jobTime) {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "job_time must be HH:MM.")
	}

	// --------------------------------------------------
	// References
	// --------------------------------------------------
	if _, err := checkCustomer(ctx, uc.repo, in.CustomerID); err != nil {
		return nil, err
	}
	svc, err := checkService(ctx, uc.repo, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if in.AssignedTo != nil {
		if _, err := checkStaff(ctx, uc.repo, *in.AssignedTo); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Insert
	// --------------------------------------------------
	j := &models.Job{
		CustomerID:   in.CustomerID,
		ServiceID:    in.ServiceID,
		AssignedTo:   in.AssignedTo,
		JobDate:      date,
		JobTime:      jobTime,
		Location:     strings.TrimSpace(in.Location),
		Notes:        strings.TrimSpace(in.Notes),
		Status:       string(jobdomain.InitialStatus()),
		ServicePrice: svc.Price,
	}
	if err := uc.repo.CreateJob(ctx, j); err != nil {
		return nil, err
	}

	out := view(ctx, uc.repo, j)

	// --------------------------------------------------
	// Side effects
	// --------------------------------------------------
	uc.fx.Record(audit.Event{
		ActorID:    actor.Ref(),
		Action:     "job_created",
		EntityType: "job",
		EntityID:   audit.ID(out.ID),
		Detail: map[string]any{
			"customer_id": out.CustomerID,
			"service_id":  out.ServiceID,
			"assigned_to": out.AssignedTo,
			"job_date":    in.JobDate,
		},
	})

	uc.fx.Trigger(ctx, notify.TriggerJobCreated, notify.JobPayload(out))
	announceAssigned(ctx, uc.fx, out)
	announceUpdated(ctx, uc.fx, out)

	return out, nil
}
