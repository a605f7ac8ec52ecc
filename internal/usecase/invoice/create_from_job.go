package invoice

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/domain"
	invoicedomain "github.com/BruksfildServices01/fieldops/internal/domain/invoice"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/notify"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

const numberAttempts = 3

// InvoiceSender delivers a freshly issued invoice to the customer.
type InvoiceSender interface {
	SendInvoice(ctx context.Context, inv *models.Invoice) error
}

// ======================================================
// USE CASE
// ======================================================

type CreateInvoiceFromJob struct {
	repo    invoicedomain.Repository
	fx      usecase.Effects
	mailer  InvoiceSender
	links   LinkCreator
	dueDays int
	now     func() time.Time
	spawn   func(ctx context.Context, name string, fn func(context.Context) error)
}

// NewCreateInvoiceFromJob wires the use case. mailer and links may be nil.
func NewCreateInvoiceFromJob(
	repo invoicedomain.Repository,
	fx usecase.Effects,
	mailer InvoiceSender,
	links LinkCreator,
	dueDays int,
) *CreateInvoiceFromJob {
	if dueDays <= 0 {
		dueDays = 14
	}
	return &CreateInvoiceFromJob{
		repo:    repo,
		fx:      fx,
		mailer:  mailer,
		links:   links,
		dueDays: dueDays,
		now:     time.Now,
		spawn:   notify.Go,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute issues the single live invoice of a job. The amount is fixed here
// and never recomputed.
func (uc *CreateInvoiceFromJob) Execute(
	ctx context.Context,
	actor usecase.Actor,
	jobID uint,
) (*models.Invoice, error) {

	if jobID == 0 {
		return nil, httperr.ErrBusiness(httperr.CodeMissingJobID)
	}

	var (
		inv *models.Invoice
		err error
	)
	for attempt := 1; attempt <= numberAttempts; attempt++ {
		inv, err = uc.issue(ctx, jobID)
		if err == nil || !httperr.IsUniqueViolation(err, "invoice_number") {
			break
		}
		logging.FromContext(ctx).Warn("invoice number taken, retrying", "job_id", jobID, "attempt", attempt)
	}
	if err != nil {
		return nil, err
	}

	out := uc.reload(ctx, inv)
	uc.afterIssue(ctx, actor, out)

	return out, nil
}

func (uc *CreateInvoiceFromJob) issue(ctx context.Context, jobID uint) (*models.Invoice, error) {
	var inv *models.Invoice

	err := uc.repo.Transaction(ctx, func(repo invoicedomain.Repository) error {

		// --------------------------------------------------
		// Job (locked)
		// --------------------------------------------------
		j, err := repo.LockJob(ctx, jobID)
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness(httperr.CodeJobNotFound)
		}
		if err != nil {
			return err
		}

		exists, err := repo.HasLiveInvoice(ctx, jobID)
		if err != nil {
			return err
		}
		if exists {
			return httperr.ErrBusiness(httperr.CodeInvoiceExists)
		}

		// --------------------------------------------------
		// Amount
		// --------------------------------------------------
		var svc *models.Service
		if j.ServicePrice <= 0 {
			svc, err = repo.GetService(ctx, j.ServiceID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}

		// --------------------------------------------------
		// Number + insert
		// --------------------------------------------------
		maxID, err := repo.MaxInvoiceID(ctx)
		if err != nil {
			return err
		}

		now := uc.now()
		inv = &models.Invoice{
			JobID:         j.ID,
			CustomerID:    j.CustomerID,
			InvoiceNumber: invoicedomain.NextNumber(maxID),
			Amount:        invoicedomain.AmountFor(j, svc),
			Status:        string(invoicedomain.StatusUnpaid),
			IssuedAt:      now,
			DueDate:       now.AddDate(0, 0, uc.dueDays),
		}

		err = repo.CreateInvoice(ctx, inv)
		if httperr.IsUniqueViolation(err, "job") {
			return httperr.ErrBusiness(httperr.CodeInvoiceExists)
		}
		return err
	})

	return inv, err
}

func (uc *CreateInvoiceFromJob) reload(ctx context.Context, inv *models.Invoice) *models.Invoice {
	out, err := uc.repo.GetInvoice(ctx, inv.ID)
	if err != nil {
		logging.FromContext(ctx).Warn("reload invoice failed", "invoice_id", inv.ID, "error", err)
		return inv
	}
	return out
}

// afterIssue runs the best-effort fan-out. Nothing here can fail the call.
// Provider calls (payment link, invoice email) run in one background task so
// the response never waits on them.
func (uc *CreateInvoiceFromJob) afterIssue(ctx context.Context, actor usecase.Actor, inv *models.Invoice) {
	uc.fx.Record(audit.Event{
		ActorID:    actor.Ref(),
		Action:     "invoice_created",
		EntityType: "invoice",
		EntityID:   audit.ID(inv.ID),
		Detail: map[string]any{
			"job_id":         inv.JobID,
			"invoice_number": inv.InvoiceNumber,
			"amount":         inv.Amount,
		},
	})
	announce(ctx, uc.fx, inv)

	if uc.links == nil && uc.mailer == nil {
		uc.fx.Trigger(ctx, notify.TriggerInvoiceCreated, notify.InvoicePayload(inv))
		return
	}

	snapshot := *inv
	uc.spawn(ctx, "invoice-delivery", func(ctx context.Context) error {
		uc.deliver(ctx, &snapshot)
		return nil
	})
}

// deliver attaches the payment link, then fires invoice_created and mails
// the invoice so both carry the link when one was created.
func (uc *CreateInvoiceFromJob) deliver(ctx context.Context, inv *models.Invoice) {
	log := logging.FromContext(ctx).With("invoice_id", inv.ID)

	if uc.links != nil {
		if link, err := uc.links.CreateLink(ctx, inv); err != nil {
			log.Warn("payment link failed", "error", err)
		} else if err := uc.repo.SaveInvoice(ctx, withLink(inv, link)); err != nil {
			log.Warn("store payment link failed", "error", err)
		} else {
			announce(ctx, uc.fx, inv)
		}
	}

	uc.fx.Trigger(ctx, notify.TriggerInvoiceCreated, notify.InvoicePayload(inv))

	if uc.mailer == nil {
		return
	}
	err := uc.mailer.SendInvoice(ctx, inv)
	if err != nil && !errors.Is(err, notify.ErrNoRecipient) && !errors.Is(err, notify.ErrChannelDisabled) {
		log.Warn("invoice email failed", "error", err)
	}
}

func withLink(inv *models.Invoice, link string) *models.Invoice {
	inv.PaymentLink = link
	return inv
}
