// Package usecasetest records the side effects use cases fan out, for tests.
package usecasetest

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/notify"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

type Triggered struct {
	Event   string
	Payload notify.Payload
}

// Recorder implements every side-effect interface of usecase.Effects.
type Recorder struct {
	mu       sync.Mutex
	Audits   []audit.Event
	Triggers []Triggered
	Events   []realtime.Event
}

func (r *Recorder) Effects() usecase.Effects {
	return usecase.Effects{Audit: r, Notify: r, Realtime: r}
}

func (r *Recorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Audits = append(r.Audits, ev)
}

func (r *Recorder) Trigger(event string, p notify.Payload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Triggers = append(r.Triggers, Triggered{Event: event, Payload: p})
}

func (r *Recorder) Publish(_ context.Context, ev realtime.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, ev)
	return nil
}

func (r *Recorder) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Audits))
	for i, a := range r.Audits {
		out[i] = a.Action
	}
	return out
}

func (r *Recorder) TriggerNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Triggers))
	for i, t := range r.Triggers {
		out[i] = t.Event
	}
	return out
}

func (r *Recorder) EventNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Name
	}
	return out
}

// Contains reports whether want is one of list.
func Contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
