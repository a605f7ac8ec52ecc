package audit

import (
	"context"
	"log/slog"
	"sync"
)

type Event struct {
	ActorID    *uint
	Action     string
	EntityType string
	EntityID   *uint
	Detail     any
}

// Recorder accepts activity events without blocking the caller.
type Recorder interface {
	Dispatch(ev Event)
}

type Sink interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sink  Sink
	queue chan Event
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 256),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			slog.Error("activity log write failed", "action", ev.Action, "error", err)
		}
	}
}

// Dispatch never blocks: a full queue drops the event so the API keeps serving.
// Events arriving after Close are dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		slog.Warn("activity log closed, dropping event", "action", ev.Action)
		return
	}

	select {
	case d.queue <- ev:
	default:
		slog.Warn("activity log queue full, dropping event", "action", ev.Action)
	}
}

// Close drains pending events. It is safe to call more than once.
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

// ID is a small helper for the pointer fields of Event.
func ID(v uint) *uint {
	return &v
}
