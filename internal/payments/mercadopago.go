// Package payments creates hosted checkout links for invoices and reads
// payment notifications back from MercadoPago.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/BruksfildServices01/fieldops/internal/config"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

const referencePrefix = "invoice:"

// ErrUnknownReference means a payment does not point at one of our invoices.
var ErrUnknownReference = errors.New("payment has no invoice reference")

// Gateway is what the invoice use cases and the webhook need from a provider.
type Gateway interface {
	CreateLink(ctx context.Context, inv *models.Invoice) (string, error)
	LookupPayment(ctx context.Context, paymentID int) (PaymentStatus, error)
}

type PaymentStatus struct {
	InvoiceID uint
	Approved  bool
	Status    string
}

type MercadoPago struct {
	prefs     preference.Client
	payments  payment.Client
	currency  string
	notifyURL string
	backURL   string
}

func NewMercadoPago(cfg config.PaymentsConfig, publicBaseURL string) (*MercadoPago, error) {
	mp, err := mpconfig.New(cfg.MercadoPagoToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		prefs:     preference.NewClient(mp),
		payments:  payment.NewClient(mp),
		currency:  cfg.Currency,
		notifyURL: publicBaseURL + "/api/webhooks/mercadopago",
		backURL:   publicBaseURL,
	}, nil
}

func (m *MercadoPago) CreateLink(ctx context.Context, inv *models.Invoice) (string, error) {
	title := "Invoice " + inv.InvoiceNumber
	if inv.Job != nil && inv.Job.Service.Name != "" {
		title += " - " + inv.Job.Service.Name
	}

	req := preference.Request{
		Items: []preference.ItemRequest{{
			ID:         inv.InvoiceNumber,
			Title:      title,
			Quantity:   1,
			UnitPrice:  inv.Amount,
			CurrencyID: m.currency,
		}},
		ExternalReference: Reference(inv.ID),
		NotificationURL:   m.notifyURL,
		BackURLs: &preference.BackURLsRequest{
			Success: m.backURL,
			Pending: m.backURL,
			Failure: m.backURL,
		},
	}
	if inv.Customer != nil && inv.Customer.Email != "" {
		req.Payer = &preference.PayerRequest{
			Name:  inv.Customer.Name,
			Email: inv.Customer.Email,
		}
	}

	res, err := m.prefs.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create preference: %w", err)
	}
	return res.InitPoint, nil
}

func (m *MercadoPago) LookupPayment(ctx context.Context, paymentID int) (PaymentStatus, error) {
	res, err := m.payments.Get(ctx, paymentID)
	if err != nil {
		return PaymentStatus{}, fmt.Errorf("get payment %d: %w", paymentID, err)
	}

	id, ok := ParseReference(res.ExternalReference)
	if !ok {
		return PaymentStatus{}, ErrUnknownReference
	}
	return PaymentStatus{
		InvoiceID: id,
		Approved:  res.Status == "approved",
		Status:    res.Status,
	}, nil
}

func Reference(invoiceID uint) string {
	return referencePrefix + strconv.FormatUint(uint64(invoiceID), 10)
}

func ParseReference(ref string) (uint, bool) {
	raw, ok := strings.CutPrefix(ref, referencePrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

var _ Gateway = (*MercadoPago)(nil)
