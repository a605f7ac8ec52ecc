package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/scheduler"
)

type SchedulerGormRepository struct {
	db *gorm.DB
}

func NewSchedulerGormRepository(db *gorm.DB) *SchedulerGormRepository {
	return &SchedulerGormRepository{db: db}
}

// --------------------------------------------------
// Follow-ups
// --------------------------------------------------

func (r *SchedulerGormRepository) DueFollowUps(ctx context.Context, from, to time.Time) ([]models.Job, error) {
	var jobs []models.Job
	err := jobView(r.db.WithContext(ctx)).
		Where("status = ? AND follow_up_sent = ?", "completed", false).
		Where("completed_at >= ? AND completed_at < ?", from, to).
		Order("completed_at ASC").
		Find(&jobs).Error
	return jobs, err
}

func (r *SchedulerGormRepository) MarkFollowUpSent(ctx context.Context, jobID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", jobID).
		Update("follow_up_sent", true).Error
}

// --------------------------------------------------
// Invoices
// --------------------------------------------------

func (r *SchedulerGormRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("status IN ? AND due_date < ?", []string{"unpaid", "partial"}, now).
		Update("status", "overdue")
	return res.RowsAffected, res.Error
}

func (r *SchedulerGormRepository) InvoicesDueBetween(ctx context.Context, from, to time.Time) ([]models.Invoice, error) {
	var out []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer", unscoped).
		Preload("Job", unscoped).
		Preload("Job.Service").
		Where("status IN ? AND reminder_sent = ?", []string{"unpaid", "partial"}, false).
		Where("due_date >= ? AND due_date < ?", from, to).
		Order("due_date ASC").
		Find(&out).Error
	return out, err
}

func (r *SchedulerGormRepository) MarkInvoiceReminderSent(ctx context.Context, invoiceID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", invoiceID).
		Update("reminder_sent", true).Error
}

// --------------------------------------------------
// Job reminders
// --------------------------------------------------

func (r *SchedulerGormRepository) JobsScheduledOn(ctx context.Context, day time.Time) ([]models.Job, error) {
	var jobs []models.Job
	err := jobView(r.db.WithContext(ctx)).
		Where("status = ? AND reminder_sent = ?", "scheduled", false).
		Where("job_date >= ? AND job_date < ?", day, day.AddDate(0, 0, 1)).
		Order("job_time ASC, id ASC").
		Find(&jobs).Error
	return jobs, err
}

func (r *SchedulerGormRepository) MarkJobReminderSent(ctx context.Context, jobID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", jobID).
		Update("reminder_sent", true).Error
}

// --------------------------------------------------
// Re-engagement
// --------------------------------------------------

// InactiveCustomers returns customers with at least one completed job, none
// since cutoff, and no re-engagement message since their last job.
func (r *SchedulerGormRepository) InactiveCustomers(ctx context.Context, cutoff time.Time) ([]scheduler.InactiveCustomer, error) {
	db := r.db.WithContext(ctx)

	served := db.Model(&models.Job{}).
		Select("customer_id").
		Where("status = ?", "completed")
	recent := db.Model(&models.Job{}).
		Select("customer_id").
		Where("job_date >= ?", cutoff)

	var customers []models.Customer
	if err := db.
		Where("id IN (?)", served).
		Where("id NOT IN (?)", recent).
		Where("reengagement_sent_at IS NULL OR reengagement_sent_at < ?", cutoff).
		Order("id ASC").
		Find(&customers).Error; err != nil {
		return nil, err
	}

	out := make([]scheduler.InactiveCustomer, 0, len(customers))
	for _, c := range customers {
		var last models.Job
		if err := db.
			Where("customer_id = ? AND status = ?", c.ID, "completed").
			Order("job_date DESC").
			First(&last).Error; err != nil {
			return nil, err
		}
		if c.ReengagementSentAt != nil && c.ReengagementSentAt.After(last.JobDate) {
			continue
		}
		out = append(out, scheduler.InactiveCustomer{Customer: c, LastJob: last.JobDate})
	}
	return out, nil
}

func (r *SchedulerGormRepository) MarkReengaged(ctx context.Context, customerID uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("reengagement_sent_at", at).Error
}

// Compile-time check
var _ scheduler.Store = (*SchedulerGormRepository)(nil)
