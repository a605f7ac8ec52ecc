package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/domain"
	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/notify"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

// InvoiceCreator issues the invoice of a completed job.
type InvoiceCreator interface {
	Execute(ctx context.Context, actor usecase.Actor, jobID uint) (*models.Invoice, error)
}

// ======================================================
// Reference checks
// ======================================================

func checkCustomer(ctx context.Context, repo jobdomain.Repository, id uint) (*models.Customer, error) {
	c, err := repo.GetCustomer(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeCustomerNotFound)
	}
	return c, err
}

func checkService(ctx context.Context, repo jobdomain.Repository, id uint) (*models.Service, error) {
	s, err := repo.GetActiveService(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	}
	return s, err
}

func checkStaff(ctx context.Context, repo jobdomain.Repository, id uint) (*models.User, error) {
	u, err := repo.GetActiveStaff(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeStaffNotFound)
	}
	return u, err
}

func lockOwned(ctx context.Context, repo jobdomain.Repository, actor usecase.Actor, id uint) (*models.Job, error) {
	j, err := repo.LockJob(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(j.AssignedTo) {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return j, nil
}

// view reloads j with its joins. When the reload fails the bare row is
// returned; the write already succeeded.
func view(ctx context.Context, repo jobdomain.Repository, j *models.Job) *models.Job {
	v, err := repo.GetJob(ctx, j.ID)
	if err != nil {
		logging.FromContext(ctx).Warn("reload job failed", "job_id", j.ID, "error", err)
		return j
	}
	return v
}

// ======================================================
// Fan-out
// ======================================================

func eventData(j *models.Job) map[string]any {
	return map[string]any{
		"id":          j.ID,
		"status":      j.Status,
		"customer_id": j.CustomerID,
		"assigned_to": j.AssignedTo,
		"job_date":    j.JobDate.Format("2006-01-02"),
		"job_time":    j.JobTime,
	}
}

func announceUpdated(ctx context.Context, fx usecase.Effects, j *models.Job) {
	fx.Emit(ctx, realtime.EventJobUpdated, eventData(j), realtime.RoomAdmin, realtime.RoomStaff)
}

func announceAssigned(ctx context.Context, fx usecase.Effects, j *models.Job) {
	if j.AssignedTo == nil {
		return
	}
	body := fmt.Sprintf("%s on %s", j.Service.Name, j.JobDate.Format("Jan 2"))
	if j.JobTime != "" {
		body += " at " + j.JobTime
	}
	if j.Location != "" {
		body += ", " + j.Location
	}

	p := notify.StaffPayload(j)
	p.Push = &notify.Message{
		Channel: notify.ChannelPush,
		To:      notify.Recipient{UserID: j.AssignedTo},
		Subject: "New job assigned",
		Body:    body,
	}
	fx.Trigger(ctx, notify.TriggerJobAssigned, p)
	fx.Emit(ctx, realtime.EventJobAssigned, eventData(j), realtime.RoomStaff, realtime.RoomAdmin)
}

// statusChanged runs the side effects of an applied status change.
func statusChanged(
	ctx context.Context,
	fx usecase.Effects,
	invoices InvoiceCreator,
	autoInvoice bool,
	actor usecase.Actor,
	j *models.Job,
	from, to jobdomain.Status,
	forced bool,
) {
	action := "job_status_changed"
	if forced {
		action = "job_status_forced"
	}
	fx.Record(audit.Event{
		ActorID:    actor.Ref(),
		Action:     action,
		EntityType: "job",
		EntityID:   audit.ID(j.ID),
		Detail:     map[string]any{"from": from, "to": to},
	})

	switch to {
	case jobdomain.StatusCompleted:
		fx.Trigger(ctx, notify.TriggerJobCompleted, notify.JobPayload(j))
		if autoInvoice && invoices != nil {
			_, err := invoices.Execute(ctx, actor, j.ID)
			if err != nil && !httperr.IsBusiness(err, httperr.CodeInvoiceExists) {
				logging.FromContext(ctx).Warn("auto invoice failed", "job_id", j.ID, "error", err)
			}
		}
	case jobdomain.StatusCancelled:
		fx.Trigger(ctx, notify.TriggerJobCancelled, notify.JobPayload(j))
	}

	announceUpdated(ctx, fx, j)
}
