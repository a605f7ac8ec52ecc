package invoice

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/domain"
	invoicedomain "github.com/BruksfildServices01/fieldops/internal/domain/invoice"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/payments"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

var admin = usecase.Actor{ID: 1, Admin: true}

type fakeRepo struct {
	jobs     map[uint]*models.Job
	services map[uint]*models.Service
	invoices map[uint]*models.Invoice
	customer *models.Customer

	numberConflicts int
	jobConflict     bool
	creates         int
}

func newFakeRepo() *fakeRepo {
	r := &fakeRepo{
		jobs: map[uint]*models.Job{},
		services: map[uint]*models.Service{
			1: {ID: 1, Name: "Deep clean", Price: 150, Active: true},
		},
		invoices: map[uint]*models.Invoice{},
		customer: &models.Customer{ID: 1, Name: "Ana Souza", Email: "ana@example.com"},
	}
	return r
}

func (r *fakeRepo) addJob(id uint, price float64) {
	r.jobs[id] = &models.Job{
		ID:           id,
		CustomerID:   1,
		ServiceID:    1,
		Status:       "completed",
		ServicePrice: price,
	}
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(repo invoicedomain.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) LockJob(_ context.Context, id uint) (*models.Job, error) {
	j, ok := r.jobs[id]
	if !ok || j.DeletedAt.Valid {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (r *fakeRepo) HasLiveInvoice(_ context.Context, jobID uint) (bool, error) {
	for _, inv := range r.invoices {
		if inv.JobID == jobID && !inv.DeletedAt.Valid {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) MaxInvoiceID(context.Context) (uint, error) {
	var max uint
	for id := range r.invoices {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (r *fakeRepo) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	r.creates++
	if r.numberConflicts > 0 {
		r.numberConflicts--
		return errors.New("UNIQUE constraint failed: invoices.invoice_number")
	}
	if r.jobConflict {
		return errors.New("UNIQUE constraint failed: invoices.job_id")
	}
	max, _ := r.MaxInvoiceID(context.Background())
	inv.ID = max + 1
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeRepo) GetInvoice(_ context.Context, id uint) (*models.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.DeletedAt.Valid {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	cp.Customer = r.customer
	cp.Job = r.jobs[inv.JobID]
	return &cp, nil
}

func (r *fakeRepo) LockInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.DeletedAt.Valid {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeRepo) SaveInvoice(_ context.Context, inv *models.Invoice) error {
	cp := *inv
	cp.Customer, cp.Job = nil, nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeRepo) ListInvoices(_ context.Context, f invoicedomain.ListFilter) ([]models.Invoice, int64, error) {
	var out []models.Invoice
	for _, inv := range r.invoices {
		if f.Status != "" && inv.Status != string(f.Status) {
			continue
		}
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) ListInvoicesIssuedBetween(_ context.Context, from, to time.Time) ([]models.Invoice, error) {
	var out []models.Invoice
	for _, inv := range r.invoices {
		if !inv.IssuedAt.Before(from) && inv.IssuedAt.Before(to) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeRepo) softDeleteInvoice(id uint) {
	r.invoices[id].DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
}

var _ invoicedomain.Repository = (*fakeRepo)(nil)

type fakeLinks struct {
	err error
}

func (f fakeLinks) CreateLink(_ context.Context, inv *models.Invoice) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://pay.example.com/" + inv.InvoiceNumber, nil
}

type fakeLookup struct {
	status payments.PaymentStatus
	err    error
}

func (f fakeLookup) LookupPayment(context.Context, int) (payments.PaymentStatus, error) {
	return f.status, f.err
}

type failingMailer struct{}

func (failingMailer) SendInvoice(context.Context, *models.Invoice) error {
	return errors.New("smtp down")
}
