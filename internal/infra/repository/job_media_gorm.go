package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/domain"
	mediadomain "github.com/BruksfildServices01/fieldops/internal/domain/jobmedia"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

type JobMediaGormRepository struct {
	db *gorm.DB
}

func NewJobMediaGormRepository(db *gorm.DB) *JobMediaGormRepository {
	return &JobMediaGormRepository{db: db}
}

func (r *JobMediaGormRepository) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var j models.Job
	if err := r.db.WithContext(ctx).First(&j, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

func (r *JobMediaGormRepository) CreateMedia(ctx context.Context, m *models.JobMedia) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *JobMediaGormRepository) GetMedia(ctx context.Context, id uint) (*models.JobMedia, error) {
	var m models.JobMedia
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *JobMediaGormRepository) ListMedia(ctx context.Context, jobID uint) ([]models.JobMedia, error) {
	var out []models.JobMedia
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *JobMediaGormRepository) DeleteMedia(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.JobMedia{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Compile-time check
var _ mediadomain.Repository = (*JobMediaGormRepository)(nil)
