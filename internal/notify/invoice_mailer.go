package notify

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/fieldops/internal/config"
	"github.com/BruksfildServices01/fieldops/internal/documents"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

// InvoiceMailer emails the rendered invoice PDF to the invoice's customer.
type InvoiceMailer struct {
	email *EmailSender
	biz   config.Business
}

func NewInvoiceMailer(email *EmailSender, biz config.Business) *InvoiceMailer {
	return &InvoiceMailer{email: email, biz: biz}
}

// SendInvoice expects inv to carry its Customer and Job.Service.
func (m *InvoiceMailer) SendInvoice(ctx context.Context, inv *models.Invoice) error {
	if inv.Customer == nil || inv.Customer.Email == "" {
		return ErrNoRecipient
	}

	pdf, err := documents.InvoicePDF(inv, m.biz)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nPlease find attached invoice %s for %s, due on %s.\n",
		inv.Customer.Name, inv.InvoiceNumber, money(inv.Amount), inv.DueDate.Format(dateLayout),
	)
	if inv.PaymentLink != "" {
		body += "\nYou can pay online: " + inv.PaymentLink + "\n"
	}
	body += "\nThank you,\n" + m.biz.Name + "\n"

	return m.email.SendWithAttachments(ctx, Message{
		Channel: ChannelEmail,
		To:      Recipient{Name: inv.Customer.Name, Email: inv.Customer.Email},
		Subject: fmt.Sprintf("Invoice %s from %s", inv.InvoiceNumber, m.biz.Name),
		Body:    body,
	}, []Attachment{{Name: inv.InvoiceNumber + ".pdf", Data: pdf}})
}
