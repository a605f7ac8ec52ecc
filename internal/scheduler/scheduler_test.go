package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/config"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/notify"
)

var now = time.Date(2026, 4, 14, 18, 0, 0, 0, time.UTC)

type fakeStore struct {
	followUps []models.Job
	due       []models.Invoice
	tomorrow  []models.Job
	inactive  []InactiveCustomer

	failFlagFor map[uint]bool

	gotFollowUpWindow [2]time.Time
	gotDueWindow      [2]time.Time
	gotDay            time.Time
	gotCutoff         time.Time

	flagged []uint
	overdue int64
}

func (f *fakeStore) mark(id uint) error {
	if f.failFlagFor[id] {
		return errors.New("write failed")
	}
	f.flagged = append(f.flagged, id)
	return nil
}

func (f *fakeStore) DueFollowUps(_ context.Context, from, to time.Time) ([]models.Job, error) {
	f.gotFollowUpWindow = [2]time.Time{from, to}
	return f.followUps, nil
}
func (f *fakeStore) MarkFollowUpSent(_ context.Context, id uint) error { return f.mark(id) }
func (f *fakeStore) MarkOverdue(context.Context, time.Time) (int64, error) {
	return f.overdue, nil
}
func (f *fakeStore) InvoicesDueBetween(_ context.Context, from, to time.Time) ([]models.Invoice, error) {
	f.gotDueWindow = [2]time.Time{from, to}
	return f.due, nil
}
func (f *fakeStore) MarkInvoiceReminderSent(_ context.Context, id uint) error { return f.mark(id) }
func (f *fakeStore) JobsScheduledOn(_ context.Context, day time.Time) ([]models.Job, error) {
	f.gotDay = day
	return f.tomorrow, nil
}
func (f *fakeStore) MarkJobReminderSent(_ context.Context, id uint) error { return f.mark(id) }
func (f *fakeStore) InactiveCustomers(_ context.Context, cutoff time.Time) ([]InactiveCustomer, error) {
	f.gotCutoff = cutoff
	return f.inactive, nil
}
func (f *fakeStore) MarkReengaged(_ context.Context, id uint, _ time.Time) error { return f.mark(id) }

type fakeDispatcher struct {
	events []string
	ids    []uint
}

func (f *fakeDispatcher) Dispatch(_ context.Context, event string, p notify.Payload) notify.Result {
	f.events = append(f.events, event)
	f.ids = append(f.ids, p.EntityID)
	return notify.Result{Matched: 1, Sent: 1}
}

func newScheduler(store *fakeStore, d *fakeDispatcher) *Scheduler {
	s := New(store, d, config.Schedules{}, "UTC")
	s.now = func() time.Time { return now }
	return s
}

func TestFollowUpDispatchesThenFlags(t *testing.T) {
	store := &fakeStore{
		followUps:   []models.Job{{ID: 1}, {ID: 2}, {ID: 3}},
		failFlagFor: map[uint]bool{2: true},
	}
	d := &fakeDispatcher{}

	rep, err := newScheduler(store, d).Run(context.Background(), TaskFollowUp)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if store.gotFollowUpWindow[0] != now.Add(-25*time.Hour) || store.gotFollowUpWindow[1] != now.Add(-24*time.Hour) {
		t.Fatalf("unexpected window %v", store.gotFollowUpWindow)
	}
	if len(d.events) != 3 || d.events[0] != notify.TriggerJobFollowUp {
		t.Fatalf("expected three follow-ups, got %v", d.events)
	}
	if rep.Selected != 3 || rep.Flagged != 2 || rep.Failed != 1 {
		t.Fatalf("a failing row must not stop the batch, got %+v", rep)
	}
}

func TestInvoiceDueMarksOverdueAndReminds(t *testing.T) {
	store := &fakeStore{
		overdue: 4,
		due:     []models.Invoice{{ID: 9, InvoiceNumber: "INV-000009"}},
	}
	d := &fakeDispatcher{}

	rep, err := newScheduler(store, d).Run(context.Background(), TaskInvoiceDue)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Overdue != 4 || rep.Flagged != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if store.gotDueWindow[0] != now.Add(48*time.Hour) || store.gotDueWindow[1] != now.Add(72*time.Hour) {
		t.Fatalf("unexpected due window %v", store.gotDueWindow)
	}
	if d.events[0] != notify.TriggerInvoiceDueSoon || d.ids[0] != 9 {
		t.Fatalf("unexpected dispatch %v %v", d.events, d.ids)
	}
}

func TestJobReminderTargetsTomorrow(t *testing.T) {
	store := &fakeStore{tomorrow: []models.Job{{ID: 5}}}
	d := &fakeDispatcher{}

	if _, err := newScheduler(store, d).Run(context.Background(), TaskJobReminder); err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC); !store.gotDay.Equal(want) {
		t.Fatalf("expected %s, got %s", want, store.gotDay)
	}
	if len(store.flagged) != 1 || d.events[0] != notify.TriggerJobReminder {
		t.Fatalf("unexpected run %v %v", store.flagged, d.events)
	}
}

func TestInactiveCustomersUsesThirtyDayCutoff(t *testing.T) {
	store := &fakeStore{inactive: []InactiveCustomer{{
		Customer: models.Customer{ID: 3, Name: "Ana"},
		LastJob:  now.AddDate(0, -2, 0),
	}}}
	d := &fakeDispatcher{}

	if _, err := newScheduler(store, d).Run(context.Background(), TaskInactiveCustomers); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !store.gotCutoff.Equal(now.Add(-30 * 24 * time.Hour)) {
		t.Fatalf("unexpected cutoff %s", store.gotCutoff)
	}
	if d.events[0] != notify.TriggerCustomerInactive || store.flagged[0] != 3 {
		t.Fatalf("unexpected run %v %v", d.events, store.flagged)
	}
}

func TestRunUnknownTask(t *testing.T) {
	_, err := newScheduler(&fakeStore{}, &fakeDispatcher{}).Run(context.Background(), "vacuum")
	if !httperr.IsBusiness(err, httperr.CodeUnknownTask) {
		t.Fatalf("expected UNKNOWN_TASK, got %v", err)
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(&fakeStore{}, &fakeDispatcher{}, config.Schedules{
		FollowUp:          "every hour",
		InvoiceDue:        "0 9 * * *",
		JobReminder:       "0 18 * * *",
		InactiveCustomers: "0 10 * * 1",
	}, "UTC")
	if err := s.Start(); err == nil {
		t.Fatal("expected invalid spec error")
	}
}
