package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/fieldops/internal/db"
	"github.com/BruksfildServices01/fieldops/internal/domain"
	invoicedomain "github.com/BruksfildServices01/fieldops/internal/domain/invoice"
	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
	ucJob "github.com/BruksfildServices01/fieldops/internal/usecase/job"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "fieldops.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedJob inserts a customer, a service and one job for them.
func seedJob(t *testing.T, gdb *gorm.DB, status string, date time.Time) models.Job {
	t.Helper()
	c := models.Customer{Name: "Rita", Email: "rita@example.com", Phone: "+15550100"}
	if err := gdb.Create(&c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	var s models.Service
	if err := gdb.Where(models.Service{Name: "Deep clean"}).
		Attrs(models.Service{Price: 120}).
		FirstOrCreate(&s).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	j := models.Job{
		CustomerID:   c.ID,
		ServiceID:    s.ID,
		JobDate:      date,
		JobTime:      "09:00",
		Status:       status,
		ServicePrice: s.Price,
	}
	if err := gdb.Create(&j).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return j
}

func jobListAll() jobdomain.ListFilter {
	return jobdomain.ListFilter{Page: 1, Limit: 50}
}

func newInvoice(t *testing.T, repo *InvoiceGormRepository, j models.Job, due time.Time) *models.Invoice {
	t.Helper()
	ctx := context.Background()
	maxID, err := repo.MaxInvoiceID(ctx)
	if err != nil {
		t.Fatalf("max invoice id: %v", err)
	}
	inv := &models.Invoice{
		JobID:         j.ID,
		CustomerID:    j.CustomerID,
		InvoiceNumber: invoicedomain.NextNumber(maxID),
		Amount:        j.ServicePrice,
		Status:        "unpaid",
		IssuedAt:      due.AddDate(0, 0, -14),
		DueDate:       due,
	}
	if err := repo.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return inv
}

// ======================================================
// Invoices
// ======================================================

func TestInvoiceNumbersAreNeverReissued(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewInvoiceGormRepository(gdb)
	ctx := context.Background()

	first := newInvoice(t, repo, seedJob(t, gdb, "completed", day(2026, 3, 1)), day(2026, 3, 15))
	if first.InvoiceNumber != "INV-000001" {
		t.Fatalf("expected INV-000001, got %s", first.InvoiceNumber)
	}

	if err := gdb.Delete(first).Error; err != nil {
		t.Fatalf("soft delete invoice: %v", err)
	}

	second := newInvoice(t, repo, seedJob(t, gdb, "completed", day(2026, 3, 2)), day(2026, 3, 16))
	if second.InvoiceNumber != "INV-000002" {
		t.Fatalf("expected INV-000002 after a soft delete, got %s", second.InvoiceNumber)
	}

	if _, err := repo.GetInvoice(ctx, first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected soft-deleted invoice to be hidden, got %v", err)
	}
}

func TestOneLiveInvoicePerJob(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewInvoiceGormRepository(gdb)
	ctx := context.Background()

	j := seedJob(t, gdb, "completed", day(2026, 3, 1))
	first := newInvoice(t, repo, j, day(2026, 3, 15))

	live, err := repo.HasLiveInvoice(ctx, j.ID)
	if err != nil || !live {
		t.Fatalf("expected a live invoice, got %v %v", live, err)
	}

	dup := &models.Invoice{
		JobID:         j.ID,
		CustomerID:    j.CustomerID,
		InvoiceNumber: "INV-999999",
		Amount:        1,
		IssuedAt:      day(2026, 3, 1),
		DueDate:       day(2026, 3, 15),
	}
	err = repo.CreateInvoice(ctx, dup)
	if err == nil {
		t.Fatalf("expected the partial unique index to reject a second live invoice")
	}
	if !httperr.IsUniqueViolation(err, "job_id") {
		t.Fatalf("expected a job_id unique violation, got %v", err)
	}

	// Once the first invoice is soft-deleted the job can be invoiced again.
	if err := gdb.Delete(first).Error; err != nil {
		t.Fatalf("soft delete invoice: %v", err)
	}
	newInvoice(t, repo, j, day(2026, 3, 20))
}

func TestListInvoicesFiltersAndPages(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewInvoiceGormRepository(gdb)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		newInvoice(t, repo, seedJob(t, gdb, "completed", day(2026, 3, i)), day(2026, 3, 14+i))
	}
	if err := gdb.Model(&models.Invoice{}).Where("id = ?", 2).Update("status", "paid").Error; err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	out, total, err := repo.ListInvoices(ctx, invoicedomain.ListFilter{Page: 1, Limit: 1, Status: "unpaid"})
	if err != nil {
		t.Fatalf("list invoices: %v", err)
	}
	if total != 2 || len(out) != 1 || out[0].ID != 3 {
		t.Fatalf("expected newest unpaid invoice of 2, got total=%d %+v", total, out)
	}
	if out[0].Customer == nil || out[0].Customer.Name != "Rita" {
		t.Fatalf("expected customer preloaded, got %+v", out[0].Customer)
	}
}

// ======================================================
// Jobs
// ======================================================

func TestSoftDeletedJobIsHiddenButKept(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewJobGormRepository(gdb)
	ctx := context.Background()

	j := seedJob(t, gdb, "scheduled", day(2026, 4, 1))

	if err := repo.SoftDeleteJob(ctx, j.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := repo.GetJob(ctx, j.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.SoftDeleteJob(ctx, j.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected second delete to report ErrNotFound, got %v", err)
	}

	var kept int64
	gdb.Unscoped().Model(&models.Job{}).Where("id = ?", j.ID).Count(&kept)
	if kept != 1 {
		t.Fatalf("expected the row to remain, got %d", kept)
	}

	_, total, err := repo.ListJobs(ctx, jobListAll())
	if err != nil || total != 0 {
		t.Fatalf("expected deleted job excluded from listings, got %d %v", total, err)
	}
}

func TestGetJobKeepsSoftDeletedCustomer(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewJobGormRepository(gdb)

	j := seedJob(t, gdb, "completed", day(2026, 4, 1))
	if err := gdb.Delete(&models.Customer{}, j.CustomerID).Error; err != nil {
		t.Fatalf("soft delete customer: %v", err)
	}

	got, err := repo.GetJob(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Customer.Name != "Rita" || got.Service.Name != "Deep clean" {
		t.Fatalf("expected history joins, got %+v / %+v", got.Customer, got.Service)
	}
}

// ======================================================
// Scheduler store
// ======================================================

func TestMarkOverdueOnlyTouchesOpenPastDueInvoices(t *testing.T) {
	gdb := newTestDB(t)
	inv := NewInvoiceGormRepository(gdb)
	store := NewSchedulerGormRepository(gdb)
	now := day(2026, 5, 10)

	past := newInvoice(t, inv, seedJob(t, gdb, "completed", day(2026, 4, 1)), day(2026, 5, 1))
	future := newInvoice(t, inv, seedJob(t, gdb, "completed", day(2026, 4, 2)), day(2026, 5, 20))
	paid := newInvoice(t, inv, seedJob(t, gdb, "completed", day(2026, 4, 3)), day(2026, 5, 2))
	gdb.Model(paid).Update("status", "paid")

	n, err := store.MarkOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("mark overdue: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 invoice marked overdue, got %d", n)
	}

	for id, want := range map[uint]string{past.ID: "overdue", future.ID: "unpaid", paid.ID: "paid"} {
		var got models.Invoice
		gdb.First(&got, id)
		if got.Status != want {
			t.Fatalf("invoice %d: expected %s, got %s", id, want, got.Status)
		}
	}
}

func TestJobsScheduledOnSkipsReminded(t *testing.T) {
	gdb := newTestDB(t)
	store := NewSchedulerGormRepository(gdb)
	ctx := context.Background()
	tomorrow := day(2026, 6, 2)

	due := seedJob(t, gdb, "scheduled", tomorrow)
	seedJob(t, gdb, "cancelled", tomorrow)
	seedJob(t, gdb, "scheduled", day(2026, 6, 3))

	jobs, err := store.JobsScheduledOn(ctx, tomorrow)
	if err != nil {
		t.Fatalf("jobs scheduled on: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != due.ID {
		t.Fatalf("expected only job %d, got %+v", due.ID, jobs)
	}

	if err := store.MarkJobReminderSent(ctx, due.ID); err != nil {
		t.Fatalf("mark reminder: %v", err)
	}
	jobs, err = store.JobsScheduledOn(ctx, tomorrow)
	if err != nil || len(jobs) != 0 {
		t.Fatalf("expected reminded job skipped, got %d %v", len(jobs), err)
	}
}

func TestInactiveCustomers(t *testing.T) {
	gdb := newTestDB(t)
	store := NewSchedulerGormRepository(gdb)
	ctx := context.Background()
	cutoff := day(2026, 3, 1)

	lapsed := seedJob(t, gdb, "completed", day(2026, 1, 10))
	active := seedJob(t, gdb, "completed", day(2026, 1, 5))
	// A booking after the cutoff makes the second customer active again.
	gdb.Create(&models.Job{CustomerID: active.CustomerID, ServiceID: active.ServiceID, JobDate: day(2026, 3, 5), Status: "scheduled"})
	seedJob(t, gdb, "cancelled", day(2026, 1, 1))

	got, err := store.InactiveCustomers(ctx, cutoff)
	if err != nil {
		t.Fatalf("inactive customers: %v", err)
	}
	if len(got) != 1 || got[0].Customer.ID != lapsed.CustomerID {
		t.Fatalf("expected only customer %d, got %+v", lapsed.CustomerID, got)
	}
	if !got[0].LastJob.Equal(lapsed.JobDate) {
		t.Fatalf("expected last job %v, got %v", lapsed.JobDate, got[0].LastJob)
	}

	if err := store.MarkReengaged(ctx, lapsed.CustomerID, day(2026, 3, 2)); err != nil {
		t.Fatalf("mark reengaged: %v", err)
	}
	got, err = store.InactiveCustomers(ctx, cutoff)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected already re-engaged customer skipped, got %+v %v", got, err)
	}
}

// ======================================================
// Automations
// ======================================================

func TestAutomationCreateKeepsDisabled(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewAutomationGormRepository(gdb)
	ctx := context.Background()

	off := &models.Automation{Name: "Thanks", TriggerEvent: "job_completed", Channel: "email", MessageTemplate: "Thanks {{customer_name}}", Enabled: false}
	on := &models.Automation{Name: "Thanks SMS", TriggerEvent: "JOB_COMPLETED", Channel: "sms", MessageTemplate: "Thanks", Enabled: true}
	for _, a := range []*models.Automation{off, on} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("create automation: %v", err)
		}
	}

	stored, err := repo.Get(ctx, off.ID)
	if err != nil || stored.Enabled {
		t.Fatalf("expected disabled automation to stay disabled, got %+v %v", stored, err)
	}

	enabled, err := repo.EnabledFor(ctx, "job_completed")
	if err != nil {
		t.Fatalf("enabled for: %v", err)
	}
	if len(enabled) != 1 || enabled[0].ID != on.ID {
		t.Fatalf("expected only the enabled automation, got %+v", enabled)
	}
}

func completeAt(t *testing.T, gdb *gorm.DB, j models.Job, at time.Time) {
	t.Helper()
	if err := gdb.Model(&j).Updates(map[string]any{"status": "completed", "completed_at": at}).Error; err != nil {
		t.Fatalf("complete job: %v", err)
	}
}

func TestDueFollowUpsWindow(t *testing.T) {
	gdb := newTestDB(t)
	store := NewSchedulerGormRepository(gdb)
	ctx := context.Background()
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

	due := seedJob(t, gdb, "scheduled", day(2026, 6, 9))
	completeAt(t, gdb, due, now.Add(-24*time.Hour-30*time.Minute))

	tooRecent := seedJob(t, gdb, "scheduled", day(2026, 6, 9))
	completeAt(t, gdb, tooRecent, now.Add(-23*time.Hour))

	tooOld := seedJob(t, gdb, "scheduled", day(2026, 6, 8))
	completeAt(t, gdb, tooOld, now.Add(-26*time.Hour))

	alreadySent := seedJob(t, gdb, "scheduled", day(2026, 6, 9))
	completeAt(t, gdb, alreadySent, now.Add(-24*time.Hour-15*time.Minute))
	if err := store.MarkFollowUpSent(ctx, alreadySent.ID); err != nil {
		t.Fatalf("mark follow-up: %v", err)
	}

	deleted := seedJob(t, gdb, "scheduled", day(2026, 6, 9))
	completeAt(t, gdb, deleted, now.Add(-24*time.Hour-45*time.Minute))
	if err := NewJobGormRepository(gdb).SoftDeleteJob(ctx, deleted.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	jobs, err := store.DueFollowUps(ctx, now.Add(-25*time.Hour), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("due follow-ups: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != due.ID {
		t.Fatalf("expected only job %d, got %+v", due.ID, jobs)
	}
	if jobs[0].Customer.Name != "Rita" || jobs[0].Service.Name != "Deep clean" {
		t.Fatalf("expected joins loaded for the message, got %+v / %+v", jobs[0].Customer, jobs[0].Service)
	}
}

func TestCompletedJobReachesFollowUpQuery(t *testing.T) {
	gdb := newTestDB(t)
	jobs := NewJobGormRepository(gdb)
	store := NewSchedulerGormRepository(gdb)
	ctx := context.Background()

	j := seedJob(t, gdb, "in-progress", day(2026, 6, 9))
	if _, err := ucJob.NewUpdateJobStatus(jobs, usecase.Effects{}, nil, false).
		Execute(ctx, usecase.Actor{ID: 1, Admin: true}, j.ID, "COMPLETED", false); err != nil {
		t.Fatalf("complete job: %v", err)
	}

	var stored models.Job
	if err := gdb.First(&stored, j.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != "completed" || stored.CompletedAt == nil {
		t.Fatalf("expected canonical completed status with a timestamp, got %q %v", stored.Status, stored.CompletedAt)
	}

	// The hourly task running 24.5h later selects the job.
	now := stored.CompletedAt.Add(24*time.Hour + 30*time.Minute)
	due, err := store.DueFollowUps(ctx, now.Add(-25*time.Hour), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("due follow-ups: %v", err)
	}
	if len(due) != 1 || due[0].ID != j.ID {
		t.Fatalf("expected job %d due for follow-up, got %+v", j.ID, due)
	}
}

func TestInvoicesDueBetween(t *testing.T) {
	gdb := newTestDB(t)
	inv := NewInvoiceGormRepository(gdb)
	store := NewSchedulerGormRepository(gdb)
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	soon := newInvoice(t, inv, seedJob(t, gdb, "completed", day(2026, 6, 20)), now.Add(60*time.Hour))
	partial := newInvoice(t, inv, seedJob(t, gdb, "completed", day(2026, 6, 21)), now.Add(54*time.Hour))
	gdb.Model(partial).Update("status", "partial")

	paid := newInvoice(t, inv, seedJob(t, gdb, "completed", day(2026, 6, 22)), now.Add(60*time.Hour))
	gdb.Model(paid).Update("status", "paid")

	reminded := newInvoice(t, inv, seedJob(t, gdb, "completed", day(2026, 6, 23)), now.Add(60*time.Hour))
	if err := store.MarkInvoiceReminderSent(ctx, reminded.ID); err != nil {
		t.Fatalf("mark reminder: %v", err)
	}

	newInvoice(t, inv, seedJob(t, gdb, "completed", day(2026, 6, 24)), now.Add(24*time.Hour))
	newInvoice(t, inv, seedJob(t, gdb, "completed", day(2026, 6, 25)), now.Add(96*time.Hour))

	out, err := store.InvoicesDueBetween(ctx, now.Add(48*time.Hour), now.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("invoices due between: %v", err)
	}
	if len(out) != 2 || out[0].ID != partial.ID || out[1].ID != soon.ID {
		t.Fatalf("expected invoices %d and %d ordered by due date, got %+v", partial.ID, soon.ID, out)
	}
	if out[1].Customer == nil || out[1].Job == nil || out[1].Job.Service.Name != "Deep clean" {
		t.Fatalf("expected customer and job joins, got %+v", out[1])
	}
}
