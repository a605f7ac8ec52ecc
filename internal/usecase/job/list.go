package job

import (
	"context"
	"strings"

	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/timezone"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

type ListJobsInput struct {
	Page       int
	Limit      int
	Status     string
	AssignedTo *uint
	CustomerID *uint
	From       string
	To         string
}

type ListJobsResult struct {
	Jobs  []models.Job
	Total int64
	Page  int
	Limit int
}

type ListJobs struct {
	repo jobdomain.Repository
}

func NewListJobs(repo jobdomain.Repository) *ListJobs {
	return &ListJobs{repo: repo}
}

// Execute pages through live jobs, newest job date first. Staff only ever
// see their own assignments. To is inclusive.
func (uc *ListJobs) Execute(ctx context.Context, actor usecase.Actor, in ListJobsInput) (*ListJobsResult, error) {
	page, limit := usecase.Page(in.Page, in.Limit)
	f := jobdomain.ListFilter{
		Page:       page,
		Limit:      limit,
		AssignedTo: in.AssignedTo,
		CustomerID: in.CustomerID,
	}

	if s := strings.TrimSpace(in.Status); s != "" {
		st, err := jobdomain.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	if in.From != "" {
		d, err := timezone.ParseDate(in.From)
		if err != nil {
			return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "from must be YYYY-MM-DD.")
		}
		f.From = &d
	}
	if in.To != "" {
		d, err := timezone.ParseDate(in.To)
		if err != nil {
			return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "to must be YYYY-MM-DD.")
		}
		d = d.AddDate(0, 0, 1)
		f.To = &d
	}

	if !actor.Admin && !actor.System() {
		f.AssignedTo = actor.Ref()
	}

	jobs, total, err := uc.repo.ListJobs(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListJobsResult{Jobs: jobs, Total: total, Page: page, Limit: limit}, nil
}
