package invoice

import (
	"context"

	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

// LinkCreator returns a hosted checkout URL for an invoice.
type LinkCreator interface {
	CreateLink(ctx context.Context, inv *models.Invoice) (string, error)
}

func announce(ctx context.Context, fx usecase.Effects, inv *models.Invoice) {
	fx.Emit(ctx, realtime.EventInvoiceUpdated, map[string]any{
		"id":             inv.ID,
		"invoice_number": inv.InvoiceNumber,
		"job_id":         inv.JobID,
		"customer_id":    inv.CustomerID,
		"amount":         inv.Amount,
		"status":         inv.Status,
		"paid_date":      inv.PaidDate,
		"payment_link":   inv.PaymentLink,
	}, realtime.RoomAdmin)
}
