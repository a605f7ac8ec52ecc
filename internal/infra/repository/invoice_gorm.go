package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	invoicedomain "github.com/BruksfildServices01/fieldops/internal/domain/invoice"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) Transaction(
	ctx context.Context,
	fn func(repo invoicedomain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&InvoiceGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Job side
// --------------------------------------------------

func (r *InvoiceGormRepository) LockJob(ctx context.Context, jobID uint) (*models.Job, error) {
	var j models.Job
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&j, jobID).Error; err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

func (r *InvoiceGormRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// --------------------------------------------------
// Invoice
// --------------------------------------------------

func (r *InvoiceGormRepository) HasLiveInvoice(ctx context.Context, jobID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("job_id = ?", jobID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MaxInvoiceID includes soft-deleted rows so numbers are never reissued.
func (r *InvoiceGormRepository) MaxInvoiceID(ctx context.Context) (uint, error) {
	var max int64
	if err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Invoice{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return uint(max), nil
}

func (r *InvoiceGormRepository) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(inv).Error
}

func (r *InvoiceGormRepository) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Customer", unscoped).
		Preload("Job", unscoped).
		Preload("Job.Service").
		First(&inv, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &inv, nil
}

func (r *InvoiceGormRepository) LockInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &inv, nil
}

func (r *InvoiceGormRepository) SaveInvoice(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(inv).Error
}

func (r *InvoiceGormRepository) ListInvoices(
	ctx context.Context,
	f invoicedomain.ListFilter,
) ([]models.Invoice, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Invoice{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Invoice
	if err := q.
		Preload("Customer", unscoped).
		Order("id DESC").
		Limit(f.Limit).
		Offset(f.Offset()).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *InvoiceGormRepository) ListInvoicesIssuedBetween(
	ctx context.Context,
	from, to time.Time,
) ([]models.Invoice, error) {
	var out []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer", unscoped).
		Preload("Job", unscoped).
		Preload("Job.Service").
		Where("issued_at >= ? AND issued_at < ?", from, to).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// Compile-time check
var _ invoicedomain.Repository = (*InvoiceGormRepository)(nil)
