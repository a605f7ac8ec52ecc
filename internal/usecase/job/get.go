package job

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/fieldops/internal/domain"
	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

type GetJob struct {
	repo jobdomain.Repository
}

func NewGetJob(repo jobdomain.Repository) *GetJob {
	return &GetJob{repo: repo}
}

func (uc *GetJob) Execute(ctx context.Context, actor usecase.Actor, jobID uint) (*models.Job, error) {
	j, err := uc.repo.GetJob(ctx, jobID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(j.AssignedTo) {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return j, nil
}
