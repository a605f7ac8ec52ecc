package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/fieldops/internal/domain"
	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

type JobGormRepository struct {
	db *gorm.DB
}

func NewJobGormRepository(db *gorm.DB) *JobGormRepository {
	return &JobGormRepository{db: db}
}

func (r *JobGormRepository) Transaction(
	ctx context.Context,
	fn func(repo jobdomain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&JobGormRepository{db: tx})
	})
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *JobGormRepository) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *JobGormRepository) GetActiveService(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *JobGormRepository) GetActiveStaff(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ? AND terminated_at IS NULL", id, true).
		First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// --------------------------------------------------
// Job
// --------------------------------------------------

func (r *JobGormRepository) CreateJob(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(j).Error
}

func (r *JobGormRepository) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var j models.Job
	if err := jobView(r.db.WithContext(ctx)).First(&j, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

func (r *JobGormRepository) LockJob(ctx context.Context, id uint) (*models.Job, error) {
	var j models.Job
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&j, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

func (r *JobGormRepository) SaveJob(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(j).Error
}

func (r *JobGormRepository) SoftDeleteJob(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Job{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *JobGormRepository) ListJobs(
	ctx context.Context,
	f jobdomain.ListFilter,
) ([]models.Job, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Job{})

	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.From != nil {
		q = q.Where("job_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("job_date < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	if err := jobView(q).
		Order("job_date DESC, id DESC").
		Limit(f.Limit).
		Offset(f.Offset()).
		Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// Compile-time check
var _ jobdomain.Repository = (*JobGormRepository)(nil)
