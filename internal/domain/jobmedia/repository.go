package jobmedia

import (
	"context"

	"github.com/BruksfildServices01/fieldops/internal/models"
)

type Repository interface {
	GetJob(ctx context.Context, id uint) (*models.Job, error)

	CreateMedia(ctx context.Context, m *models.JobMedia) error
	GetMedia(ctx context.Context, id uint) (*models.JobMedia, error)
	ListMedia(ctx context.Context, jobID uint) ([]models.JobMedia, error)
	DeleteMedia(ctx context.Context, id uint) error
}
