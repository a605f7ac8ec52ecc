// Package usecase groups the application operations. Subpackages hold one
// aggregate each; Effects is the side-effect fan-out they share.
package usecase

import (
	"context"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/notify"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
)

// Effects carries the best-effort outputs of an operation. Any field may be
// nil; the helpers then do nothing.
type Effects struct {
	Audit    audit.Recorder
	Notify   notify.Notifier
	Realtime realtime.Publisher
}

func (e Effects) Record(ev audit.Event) {
	if e.Audit != nil {
		e.Audit.Dispatch(ev)
	}
}

// Trigger stamps p with the request id of ctx before queueing it.
func (e Effects) Trigger(ctx context.Context, event string, p notify.Payload) {
	if e.Notify == nil {
		return
	}
	p.RequestID = logging.RequestID(ctx)
	e.Notify.Trigger(event, p)
}

func (e Effects) Emit(ctx context.Context, name string, data any, rooms ...string) {
	realtime.Emit(ctx, e.Realtime, name, data, rooms...)
}
