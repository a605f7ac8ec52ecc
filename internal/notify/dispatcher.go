package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
)

// Notifier hands business events to the automation pipeline without
// waiting for delivery.
type Notifier interface {
	Trigger(event string, p Payload)
}

type AutomationStore interface {
	EnabledFor(ctx context.Context, trigger string) ([]models.Automation, error)
}

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Result summarizes one Dispatch call.
type Result struct {
	Matched int
	Sent    int
	Failed  int
	Skipped int

	DefaultPushSent bool
}

type queued struct {
	event   string
	payload Payload
}

type Dispatcher struct {
	store   AutomationStore
	senders map[Channel]Sender
	audit   audit.Recorder
	rt      realtime.Publisher

	queue  chan queued
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

type DispatcherOption func(*Dispatcher)

func WithSender(ch Channel, s Sender) DispatcherOption {
	return func(d *Dispatcher) { d.senders[ch] = s }
}

func NewDispatcher(
	store AutomationStore,
	recorder audit.Recorder,
	rt realtime.Publisher,
	workers int,
	opts ...DispatcherOption,
) *Dispatcher {
	if workers <= 0 {
		workers = 2
	}
	d := &Dispatcher{
		store:   store,
		senders: make(map[Channel]Sender),
		audit:   recorder,
		rt:      rt,
		queue:   make(chan queued, 256),
	}
	for _, opt := range opts {
		opt(d)
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for q := range d.queue {
		ctx := logging.WithRequestID(context.Background(), q.payload.RequestID)
		d.Dispatch(ctx, q.event, q.payload)
	}
}

// Trigger enqueues the event. When the queue is full the event is dropped
// and logged; the caller is never blocked.
func (d *Dispatcher) Trigger(event string, p Payload) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		logging.FromContext(logging.WithRequestID(context.Background(), p.RequestID)).
			Warn("notification dispatcher closed, dropping event", "trigger", event)
		return
	}

	select {
	case d.queue <- queued{event: event, payload: p}:
	default:
		logging.FromContext(logging.WithRequestID(context.Background(), p.RequestID)).
			Warn("notification queue full, dropping event", "trigger", event)
	}
}

// Dispatch runs every enabled automation for event synchronously. Delivery
// failures are recorded and logged, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, p Payload) Result {
	log := logging.FromContext(ctx).With("trigger", event)

	var res Result
	autos, err := d.store.EnabledFor(ctx, event)
	if err != nil {
		log.Error("load automations failed", "error", err)
		d.defaultPush(ctx, p)
		return res
	}
	res.Matched = len(autos)

	pushAutomation := false
	for i := range autos {
		a := &autos[i]
		if ch, err := ParseChannel(a.Channel); err == nil && ch == ChannelPush {
			pushAutomation = true
		}
		status, sendErr := d.runOne(ctx, a, p)

		switch status {
		case StatusSent:
			res.Sent++
		case StatusSkipped:
			res.Skipped++
		default:
			res.Failed++
		}

		detail := map[string]any{
			"trigger":     event,
			"channel":     a.Channel,
			"status":      status,
			"entity_type": p.EntityType,
			"entity_id":   p.EntityID,
		}
		if sendErr != nil {
			detail["error"] = sendErr.Error()
			log.Warn("automation delivery failed",
				"automation_id", a.ID, "channel", a.Channel, "status", status, "error", sendErr)
		}

		if d.audit != nil {
			d.audit.Dispatch(audit.Event{
				ActorID:    p.ActorID,
				Action:     "automation_triggered",
				EntityType: "automation",
				EntityID:   audit.ID(a.ID),
				Detail:     detail,
			})
		}

		realtime.Emit(ctx, d.rt, realtime.EventAutomationTriggered, map[string]any{
			"automation_id": a.ID,
			"name":          a.Name,
			"trigger":       event,
			"channel":       a.Channel,
			"status":        status,
			"entity_type":   p.EntityType,
			"entity_id":     p.EntityID,
		}, realtime.RoomAdmin)
	}

	if !pushAutomation {
		res.DefaultPushSent = d.defaultPush(ctx, p)
	}
	return res
}

// defaultPush delivers p.Push, reporting whether it went out.
func (d *Dispatcher) defaultPush(ctx context.Context, p Payload) bool {
	if p.Push == nil {
		return false
	}
	sender, ok := d.senders[ChannelPush]
	if !ok {
		return false
	}

	msg := *p.Push
	msg.Channel = ChannelPush
	if msg.To.UserID == nil {
		msg.To = p.Recipient
	}
	err := sender.Send(ctx, msg)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrNoRecipient) && !errors.Is(err, ErrChannelDisabled) {
		logging.FromContext(ctx).Warn("default push failed", "entity_type", p.EntityType, "entity_id", p.EntityID, "error", err)
	}
	return false
}

func (d *Dispatcher) runOne(ctx context.Context, a *models.Automation, p Payload) (status string, err error) {
	defer func() {
		if r := recover(); r != nil {
			status, err = StatusFailed, errors.New("sender panicked")
		}
	}()

	ch, err := ParseChannel(a.Channel)
	if err != nil {
		return StatusFailed, err
	}
	sender, ok := d.senders[ch]
	if !ok {
		return StatusSkipped, ErrChannelDisabled
	}

	msg := Message{
		Channel: ch,
		To:      p.Recipient,
		Subject: Render(a.Subject, p.Data),
		Body:    Render(a.MessageTemplate, p.Data),
	}
	if msg.Subject == "" {
		msg.Subject = a.Name
	}

	if err := sender.Send(ctx, msg); err != nil {
		if errors.Is(err, ErrNoRecipient) || errors.Is(err, ErrChannelDisabled) {
			return StatusSkipped, err
		}
		return StatusFailed, err
	}
	return StatusSent, nil
}

// Close stops accepting work and waits for queued events to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

var _ Notifier = (*Dispatcher)(nil)
