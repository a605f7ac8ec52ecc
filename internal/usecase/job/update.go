package job

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/timezone"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
	"github.com/BruksfildServices01/fieldops/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

// UpdateJobInput is a partial update: nil fields are left alone.
type UpdateJobInput struct {
	CustomerID *uint
	ServiceID  *uint
	AssignedTo *uint
	Unassign   bool

	JobDate  *string
	JobTime  *string
	Location *string
	Notes    *string

	Status *string
	Force  bool
}

// ======================================================
// USE CASE
// ======================================================

type UpdateJob struct {
	repo        jobdomain.Repository
	fx          usecase.Effects
	invoices    InvoiceCreator
	autoInvoice bool
	now         func() time.Time
}

func NewUpdateJob(
	repo jobdomain.Repository,
	fx usecase.Effects,
	invoices InvoiceCreator,
	autoInvoice bool,
) *UpdateJob {
	return &UpdateJob{
		repo:        repo,
		fx:          fx,
		invoices:    invoices,
		autoInvoice: autoInvoice,
		now:         time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateJob) Execute(
	ctx context.Context,
	actor usecase.Actor,
	jobID uint,
	in UpdateJobInput,
) (*models.Job, error) {

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	var (
		target  jobdomain.Status
		hasNext bool
	)
	if in.Status != nil {
		if strings.TrimSpace(*in.Status) == "" {
			return nil, httperr.ErrBusiness(httperr.CodeMissingStatus)
		}
		st, err := jobdomain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		target, hasNext = st, true
	}
	if in.Force && !actor.Admin {
		return nil, httperr.ErrBusinessMsg(httperr.CodeForbidden, "Only admins can force a status change.")
	}

	var date *time.Time
	if in.JobDate != nil {
		d, err := timezone.ParseDate(strings.TrimSpace(*in.JobDate))
		if err != nil {
			return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "job_date must be YYYY-MM-DD.")
		}
		date = &d
	}
	if in.JobTime != nil {
		t := strings.TrimSpace(*in.JobTime)
		if t != "" && !validators.IsClock(t) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "job_time must be HH:MM.")
		}
	}

	// --------------------------------------------------
	// Apply
	// --------------------------------------------------
	var (
		j             *models.Job
		from          jobdomain.Status
		statusChange  bool
		reassigned    bool
		changedFields []string
	)

	err := uc.repo.Transaction(ctx, func(repo jobdomain.Repository) error {
		var err error
		j, err = lockOwned(ctx, repo, actor, jobID)
		if err != nil {
			return err
		}
		from = jobdomain.Current(j)

		if in.CustomerID != nil && *in.CustomerID != j.CustomerID {
			if _, err := checkCustomer(ctx, repo, *in.CustomerID); err != nil {
				return err
			}
			j.CustomerID = *in.CustomerID
			changedFields = append(changedFields, "customer_id")
		}

		if in.ServiceID != nil && *in.ServiceID != j.ServiceID {
			svc, err := checkService(ctx, repo, *in.ServiceID)
			if err != nil {
				return err
			}
			j.ServiceID = svc.ID
			j.ServicePrice = svc.Price
			changedFields = append(changedFields, "service_id")
		}

		switch {
		case in.Unassign && j.AssignedTo != nil:
			j.AssignedTo = nil
			changedFields = append(changedFields, "assigned_to")
		case in.AssignedTo != nil && (j.AssignedTo == nil || *j.AssignedTo != *in.AssignedTo):
			if _, err := checkStaff(ctx, repo, *in.AssignedTo); err != nil {
				return err
			}
			id := *in.AssignedTo
			j.AssignedTo = &id
			reassigned = true
			changedFields = append(changedFields, "assigned_to")
		}

		if date != nil {
			j.JobDate = *date
			j.ReminderSent = false
			changedFields = append(changedFields, "job_date")
		}
		if in.JobTime != nil {
			j.JobTime = strings.TrimSpace(*in.JobTime)
			changedFields = append(changedFields, "job_time")
		}
		if in.Location != nil {
			j.Location = strings.TrimSpace(*in.Location)
			changedFields = append(changedFields, "location")
		}
		if in.Notes != nil {
			j.Notes = strings.TrimSpace(*in.Notes)
			changedFields = append(changedFields, "notes")
		}

		if hasNext {
			statusChange, err = jobdomain.Transition(j, target, uc.now(), in.Force)
			if err != nil {
				return err
			}
		}

		if len(changedFields) == 0 && !statusChange {
			return nil
		}
		j.UpdatedAt = uc.now()
		return repo.SaveJob(ctx, j)
	})
	if err != nil {
		return nil, err
	}

	out := view(ctx, uc.repo, j)
	if len(changedFields) == 0 && !statusChange {
		return out, nil
	}

	// --------------------------------------------------
	// Side effects
	// --------------------------------------------------
	if len(changedFields) > 0 {
		uc.fx.Record(audit.Event{
			ActorID:    actor.Ref(),
			Action:     "job_updated",
			EntityType: "job",
			EntityID:   audit.ID(out.ID),
			Detail:     map[string]any{"fields": changedFields},
		})
	}
	if reassigned {
		announceAssigned(ctx, uc.fx, out)
	}
	if statusChange {
		forced := in.Force && !jobdomain.CanTransition(from, target)
		statusChanged(ctx, uc.fx, uc.invoices, uc.autoInvoice, actor, out, from, target, forced)
	} else {
		announceUpdated(ctx, uc.fx, out)
	}

	return out, nil
}
