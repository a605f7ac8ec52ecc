package job

import (
	"context"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/models"
)

type ListFilter struct {
	Page       int
	Limit      int
	Status     Status
	AssignedTo *uint
	CustomerID *uint
	From       *time.Time
	To         *time.Time
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Repository interface {
	// Transaction runs fn against a repository bound to a single transaction.
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	// -------- References --------
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	GetActiveService(ctx context.Context, id uint) (*models.Service, error)
	GetActiveStaff(ctx context.Context, id uint) (*models.User, error)

	// -------- Job --------
	CreateJob(ctx context.Context, j *models.Job) error
	GetJob(ctx context.Context, id uint) (*models.Job, error)
	LockJob(ctx context.Context, id uint) (*models.Job, error)
	SaveJob(ctx context.Context, j *models.Job) error
	SoftDeleteJob(ctx context.Context, id uint) error
	ListJobs(ctx context.Context, f ListFilter) ([]models.Job, int64, error)
}
