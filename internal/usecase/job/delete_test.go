package job

import (
	"context"
	"testing"

	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/usecase/usecasetest"
)

func TestDeleteJobHidesButKeepsRow(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seedJob(jobdomain.StatusScheduled)
	rec := &usecasetest.Recorder{}

	if err := NewDeleteJob(repo, rec.Effects()).Execute(context.Background(), admin, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.jobs[id]; !ok {
		t.Fatal("row must remain after soft delete")
	}

	if _, err := NewGetJob(repo).Execute(context.Background(), admin, id); !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}
	if err := NewDeleteJob(repo, rec.Effects()).Execute(context.Background(), admin, id); !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("second delete should be NOT_FOUND, got %v", err)
	}
	if !usecasetest.Contains(rec.Actions(), "job_deleted") {
		t.Fatalf("expected job_deleted activity, got %v", rec.Actions())
	}
}

func TestListJobsScopesStaffToOwnJobs(t *testing.T) {
	repo := newFakeRepo()
	mine := repo.seedJob(jobdomain.StatusScheduled)
	other := repo.seedJob(jobdomain.StatusScheduled)
	repo.jobs[other].AssignedTo = uintPtr(99)

	res, err := NewListJobs(repo).Execute(context.Background(), staff, ListJobsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 1 || res.Jobs[0].ID != mine {
		t.Fatalf("expected only job %d, got %+v", mine, res.Jobs)
	}
	if res.Page != 1 || res.Limit != 20 {
		t.Fatalf("expected default paging, got %d/%d", res.Page, res.Limit)
	}

	res, err = NewListJobs(repo).Execute(context.Background(), admin, ListJobsInput{Status: "SCHEDULED"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("admin should see both jobs, got %d", res.Total)
	}

	if _, err := NewListJobs(repo).Execute(context.Background(), admin, ListJobsInput{Status: "later"}); !httperr.IsBusiness(err, httperr.CodeInvalidStatus) {
		t.Fatalf("expected INVALID_STATUS, got %v", err)
	}
}
