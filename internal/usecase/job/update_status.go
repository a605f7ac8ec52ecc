package job

import (
	"context"
	"strings"
	"time"

	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

type UpdateJobStatus struct {
	repo        jobdomain.Repository
	fx          usecase.Effects
	invoices    InvoiceCreator
	autoInvoice bool
	now         func() time.Time
}

// NewUpdateJobStatus wires the status use case. invoices may be nil; with
// autoInvoice set a job moving to completed gets its invoice right away.
func NewUpdateJobStatus(
	repo jobdomain.Repository,
	fx usecase.Effects,
	invoices InvoiceCreator,
	autoInvoice bool,
) *UpdateJobStatus {
	return &UpdateJobStatus{
		repo:        repo,
		fx:          fx,
		invoices:    invoices,
		autoInvoice: autoInvoice,
		now:         time.Now,
	}
}

// Execute moves the job to raw status. Setting the current status again is a
// no-op that returns the job unchanged. force bypasses the lifecycle graph
// and is limited to admins.
func (uc *UpdateJobStatus) Execute(
	ctx context.Context,
	actor usecase.Actor,
	jobID uint,
	raw string,
	force bool,
) (*models.Job, error) {

	if strings.TrimSpace(raw) == "" {
		return nil, httperr.ErrBusiness(httperr.CodeMissingStatus)
	}
	to, err := jobdomain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	if force && !actor.Admin {
		return nil, httperr.ErrBusinessMsg(httperr.CodeForbidden, "Only admins can force a status change.")
	}

	var (
		j       *models.Job
		from    jobdomain.Status
		changed bool
	)

	err = uc.repo.Transaction(ctx, func(repo jobdomain.Repository) error {
		var err error
		j, err = lockOwned(ctx, repo, actor, jobID)
		if err != nil {
			return err
		}

		from = jobdomain.Current(j)
		changed, err = jobdomain.Transition(j, to, uc.now(), force)
		if err != nil || !changed {
			return err
		}
		return repo.SaveJob(ctx, j)
	})
	if err != nil {
		return nil, err
	}

	out := view(ctx, uc.repo, j)
	if !changed {
		return out, nil
	}

	forced := force && !jobdomain.CanTransition(from, to)
	statusChanged(ctx, uc.fx, uc.invoices, uc.autoInvoice, actor, out, from, to, forced)

	return out, nil
}
