package invoice

import (
	"context"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/models"
)

type ListFilter struct {
	Page       int
	Limit      int
	Status     Status
	CustomerID *uint
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Repository interface {
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	// -------- Job side --------
	LockJob(ctx context.Context, jobID uint) (*models.Job, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)

	// -------- Invoice --------
	HasLiveInvoice(ctx context.Context, jobID uint) (bool, error)
	MaxInvoiceID(ctx context.Context) (uint, error)
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, id uint) (*models.Invoice, error)
	LockInvoice(ctx context.Context, id uint) (*models.Invoice, error)
	SaveInvoice(ctx context.Context, inv *models.Invoice) error
	ListInvoices(ctx context.Context, f ListFilter) ([]models.Invoice, int64, error)
	ListInvoicesIssuedBetween(ctx context.Context, from, to time.Time) ([]models.Invoice, error)
}
