// Package scheduler runs the periodic customer-communication tasks. Every
// task selects rows whose idempotence flag is unset, dispatches the matching
// automation and then sets the flag, so a crash mid-batch only repeats
// work for rows not yet flagged.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/fieldops/internal/config"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/notify"
	"github.com/BruksfildServices01/fieldops/internal/timezone"
)

const (
	TaskFollowUp          = "follow-up"
	TaskInvoiceDue        = "invoice-due"
	TaskJobReminder       = "job-reminder"
	TaskInactiveCustomers = "inactive-customers"
)

const inactiveAfter = 30 * 24 * time.Hour

type InactiveCustomer struct {
	Customer models.Customer
	LastJob  time.Time
}

type Store interface {
	DueFollowUps(ctx context.Context, from, to time.Time) ([]models.Job, error)
	MarkFollowUpSent(ctx context.Context, jobID uint) error

	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	InvoicesDueBetween(ctx context.Context, from, to time.Time) ([]models.Invoice, error)
	MarkInvoiceReminderSent(ctx context.Context, invoiceID uint) error

	JobsScheduledOn(ctx context.Context, day time.Time) ([]models.Job, error)
	MarkJobReminderSent(ctx context.Context, jobID uint) error

	InactiveCustomers(ctx context.Context, cutoff time.Time) ([]InactiveCustomer, error)
	MarkReengaged(ctx context.Context, customerID uint, at time.Time) error
}

// Dispatcher is the synchronous side of notify.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, event string, p notify.Payload) notify.Result
}

// Report summarizes one task run.
type Report struct {
	Task      string `json:"task"`
	Selected  int    `json:"selected"`
	Flagged   int    `json:"flagged"`
	Failed    int    `json:"failed"`
	Overdue   int64  `json:"overdue,omitempty"`
	StartedAt string `json:"started_at"`
}

type Scheduler struct {
	store    Store
	dispatch Dispatcher
	specs    config.Schedules
	tz       string
	now      func() time.Time
	log      *slog.Logger

	cron  *cron.Cron
	tasks map[string]func(ctx context.Context) (Report, error)
}

func New(store Store, d Dispatcher, specs config.Schedules, tz string) *Scheduler {
	s := &Scheduler{
		store:    store,
		dispatch: d,
		specs:    specs,
		tz:       tz,
		now:      time.Now,
		log:      slog.Default().With("component", "scheduler"),
	}
	s.tasks = map[string]func(ctx context.Context) (Report, error){
		TaskFollowUp:          s.followUp,
		TaskInvoiceDue:        s.invoiceDue,
		TaskJobReminder:       s.jobReminder,
		TaskInactiveCustomers: s.inactiveCustomers,
	}
	return s
}

// ======================================================
// Lifecycle
// ======================================================

// Start registers every task and starts the cron loop. Overlapping runs of
// one task are skipped.
func (s *Scheduler) Start() error {
	logger := cronLogger{s.log}
	s.cron = cron.New(
		cron.WithLocation(timezone.Location(s.tz)),
		cron.WithLogger(logger),
	)

	entries := []struct {
		task string
		spec string
	}{
		{TaskFollowUp, s.specs.FollowUp},
		{TaskInvoiceDue, s.specs.InvoiceDue},
		{TaskJobReminder, s.specs.JobReminder},
		{TaskInactiveCustomers, s.specs.InactiveCustomers},
	}

	for _, e := range entries {
		task := e.task
		job := cron.NewChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		).Then(cron.FuncJob(func() {
			if _, err := s.Run(context.Background(), task); err != nil {
				s.log.Error("task failed", "task", task, "error", err)
			}
		}))

		if _, err := s.cron.AddJob(e.spec, job); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", task, e.spec, err)
		}
		s.log.Info("task scheduled", "task", task, "spec", e.spec)
	}

	s.cron.Start()
	return nil
}

// Stop prevents new runs and waits for running tasks until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Run executes one task immediately.
func (s *Scheduler) Run(ctx context.Context, task string) (Report, error) {
	fn, ok := s.tasks[task]
	if !ok {
		return Report{}, httperr.ErrBusiness(httperr.CodeUnknownTask)
	}

	started := s.now()
	rep, err := fn(ctx)
	rep.Task = task
	rep.StartedAt = started.UTC().Format(time.RFC3339)

	s.log.Info("task finished",
		"task", task,
		"selected", rep.Selected,
		"flagged", rep.Flagged,
		"failed", rep.Failed,
		"took", time.Since(started).String(),
	)
	return rep, err
}

func Tasks() []string {
	return []string{TaskFollowUp, TaskInvoiceDue, TaskJobReminder, TaskInactiveCustomers}
}

// FollowUps lists the jobs the next follow-up run would pick up.
func (s *Scheduler) FollowUps(ctx context.Context) ([]models.Job, error) {
	from, to := s.followUpWindow()
	return s.store.DueFollowUps(ctx, from, to)
}

// ======================================================
// Tasks
// ======================================================

func (s *Scheduler) followUpWindow() (time.Time, time.Time) {
	now := s.now()
	return now.Add(-25 * time.Hour), now.Add(-24 * time.Hour)
}

func (s *Scheduler) followUp(ctx context.Context) (Report, error) {
	from, to := s.followUpWindow()
	jobs, err := s.store.DueFollowUps(ctx, from, to)
	if err != nil {
		return Report{}, err
	}

	rep := Report{Selected: len(jobs)}
	for i := range jobs {
		j := &jobs[i]
		s.dispatch.Dispatch(ctx, notify.TriggerJobFollowUp, notify.JobPayload(j))
		s.flag(&rep, "job", j.ID, s.store.MarkFollowUpSent(ctx, j.ID))
	}
	return rep, nil
}

func (s *Scheduler) invoiceDue(ctx context.Context) (Report, error) {
	now := s.now()

	overdue, err := s.store.MarkOverdue(ctx, now)
	if err != nil {
		s.log.Error("mark overdue failed", "error", err)
	}

	invoices, err := s.store.InvoicesDueBetween(ctx, now.Add(48*time.Hour), now.Add(72*time.Hour))
	if err != nil {
		return Report{Overdue: overdue}, err
	}

	rep := Report{Selected: len(invoices), Overdue: overdue}
	for i := range invoices {
		inv := &invoices[i]
		s.dispatch.Dispatch(ctx, notify.TriggerInvoiceDueSoon, notify.InvoicePayload(inv))
		s.flag(&rep, "invoice", inv.ID, s.store.MarkInvoiceReminderSent(ctx, inv.ID))
	}
	return rep, nil
}

func (s *Scheduler) jobReminder(ctx context.Context) (Report, error) {
	day := timezone.Tomorrow(s.tz, s.now())
	jobs, err := s.store.JobsScheduledOn(ctx, day)
	if err != nil {
		return Report{}, err
	}

	rep := Report{Selected: len(jobs)}
	for i := range jobs {
		j := &jobs[i]
		s.dispatch.Dispatch(ctx, notify.TriggerJobReminder, notify.JobPayload(j))
		s.flag(&rep, "job", j.ID, s.store.MarkJobReminderSent(ctx, j.ID))
	}
	return rep, nil
}

func (s *Scheduler) inactiveCustomers(ctx context.Context) (Report, error) {
	now := s.now()
	rows, err := s.store.InactiveCustomers(ctx, now.Add(-inactiveAfter))
	if err != nil {
		return Report{}, err
	}

	rep := Report{Selected: len(rows)}
	for i := range rows {
		c := &rows[i].Customer
		s.dispatch.Dispatch(ctx, notify.TriggerCustomerInactive, notify.CustomerPayload(c, rows[i].LastJob))
		s.flag(&rep, "customer", c.ID, s.store.MarkReengaged(ctx, c.ID, now))
	}
	return rep, nil
}

func (s *Scheduler) flag(rep *Report, entity string, id uint, err error) {
	if err != nil {
		rep.Failed++
		s.log.Error("set task flag failed", "entity", entity, "id", id, "error", err)
		return
	}
	rep.Flagged++
}

// ------------------------------------------------------

type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, kv ...any) {
	c.l.Debug(msg, kv...)
}

func (c cronLogger) Error(err error, msg string, kv ...any) {
	c.l.Error(msg, append(kv, "error", err)...)
}
