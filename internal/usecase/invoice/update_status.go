package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/domain"
	invoicedomain "github.com/BruksfildServices01/fieldops/internal/domain/invoice"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/notify"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

type UpdateInvoiceStatus struct {
	repo invoicedomain.Repository
	fx   usecase.Effects
	now  func() time.Time
}

func NewUpdateInvoiceStatus(repo invoicedomain.Repository, fx usecase.Effects) *UpdateInvoiceStatus {
	return &UpdateInvoiceStatus{repo: repo, fx: fx, now: time.Now}
}

// Execute sets status and paid date. The amount is never touched.
func (uc *UpdateInvoiceStatus) Execute(
	ctx context.Context,
	actor usecase.Actor,
	invoiceID uint,
	raw string,
	paidDate *time.Time,
) (*models.Invoice, error) {

	if strings.TrimSpace(raw) == "" {
		return nil, httperr.ErrBusiness(httperr.CodeMissingStatus)
	}
	st, err := invoicedomain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	var (
		inv  *models.Invoice
		prev invoicedomain.Status
	)
	err = uc.repo.Transaction(ctx, func(repo invoicedomain.Repository) error {
		var err error
		inv, err = repo.LockInvoice(ctx, invoiceID)
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness(httperr.CodeNotFound)
		}
		if err != nil {
			return err
		}

		prev = invoicedomain.Status(strings.ToLower(inv.Status))
		invoicedomain.ApplyStatus(inv, st, paidDate, uc.now())
		return repo.SaveInvoice(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	out, err := uc.repo.GetInvoice(ctx, inv.ID)
	if err != nil {
		out = inv
	}

	uc.fx.Record(audit.Event{
		ActorID:    actor.Ref(),
		Action:     "invoice_status_changed",
		EntityType: "invoice",
		EntityID:   audit.ID(out.ID),
		Detail:     map[string]any{"from": prev, "to": st, "paid_date": out.PaidDate},
	})
	announce(ctx, uc.fx, out)
	if st == invoicedomain.StatusPaid && prev != invoicedomain.StatusPaid {
		uc.fx.Trigger(ctx, notify.TriggerInvoicePaid, notify.InvoicePayload(out))
	}

	return out, nil
}

// MarkInvoicePaid is UpdateInvoiceStatus with status paid and today's date.
type MarkInvoicePaid struct {
	update *UpdateInvoiceStatus
}

func NewMarkInvoicePaid(update *UpdateInvoiceStatus) *MarkInvoicePaid {
	return &MarkInvoicePaid{update: update}
}

func (uc *MarkInvoicePaid) Execute(ctx context.Context, actor usecase.Actor, invoiceID uint) (*models.Invoice, error) {
	return uc.update.Execute(ctx, actor, invoiceID, string(invoicedomain.StatusPaid), nil)
}
