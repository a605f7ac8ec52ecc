package invoice

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/domain"
	invoicedomain "github.com/BruksfildServices01/fieldops/internal/domain/invoice"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/payments"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

// ======================================================
// Payment link
// ======================================================

type CreatePaymentLink struct {
	repo  invoicedomain.Repository
	links LinkCreator
	fx    usecase.Effects
}

// NewCreatePaymentLink accepts a nil links; Execute then reports
// PAYMENTS_DISABLED.
func NewCreatePaymentLink(repo invoicedomain.Repository, links LinkCreator, fx usecase.Effects) *CreatePaymentLink {
	return &CreatePaymentLink{repo: repo, links: links, fx: fx}
}

func (uc *CreatePaymentLink) Execute(ctx context.Context, actor usecase.Actor, invoiceID uint) (*models.Invoice, error) {
	if uc.links == nil {
		return nil, httperr.ErrBusiness(httperr.CodePaymentsDisabled)
	}

	inv, err := uc.repo.GetInvoice(ctx, invoiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !invoicedomain.Status(inv.Status).Open() {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Invoice is not awaiting payment.")
	}

	link, err := uc.links.CreateLink(ctx, inv)
	if err != nil {
		return nil, err
	}
	inv.PaymentLink = link
	if err := uc.repo.SaveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	uc.fx.Record(audit.Event{
		ActorID:    actor.Ref(),
		Action:     "invoice_payment_link",
		EntityType: "invoice",
		EntityID:   audit.ID(inv.ID),
	})
	announce(ctx, uc.fx, inv)

	return inv, nil
}

// ======================================================
// Payment notification
// ======================================================

type PaymentLookup interface {
	LookupPayment(ctx context.Context, paymentID int) (payments.PaymentStatus, error)
}

// HandlePaymentNotification marks the referenced invoice paid once the
// provider reports the payment approved.
type HandlePaymentNotification struct {
	lookup PaymentLookup
	repo   invoicedomain.Repository
	update *UpdateInvoiceStatus
}

func NewHandlePaymentNotification(
	lookup PaymentLookup,
	repo invoicedomain.Repository,
	update *UpdateInvoiceStatus,
) *HandlePaymentNotification {
	return &HandlePaymentNotification{lookup: lookup, repo: repo, update: update}
}

// Execute returns true when an invoice was marked paid.
func (uc *HandlePaymentNotification) Execute(ctx context.Context, paymentID int) (bool, error) {
	if uc.lookup == nil {
		return false, httperr.ErrBusiness(httperr.CodePaymentsDisabled)
	}

	ps, err := uc.lookup.LookupPayment(ctx, paymentID)
	if errors.Is(err, payments.ErrUnknownReference) {
		logging.FromContext(ctx).Info("payment without invoice reference ignored", "payment_id", paymentID)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !ps.Approved {
		return false, nil
	}

	inv, err := uc.repo.GetInvoice(ctx, ps.InvoiceID)
	if errors.Is(err, domain.ErrNotFound) {
		logging.FromContext(ctx).Warn("payment for unknown invoice", "invoice_id", ps.InvoiceID)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if inv.Status == string(invoicedomain.StatusPaid) {
		return false, nil
	}

	if _, err := uc.update.Execute(ctx, usecase.Actor{}, inv.ID, string(invoicedomain.StatusPaid), nil); err != nil {
		return false, err
	}
	return true, nil
}
