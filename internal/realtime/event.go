// Package realtime fans lifecycle events out to dashboard clients grouped in
// role rooms. A Hub serves a single instance; RedisBroker spreads events
// across instances through Redis pub/sub.
package realtime

import (
	"context"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/logging"
)

const (
	RoomAdmin = "admin"
	RoomStaff = "staff"
)

const (
	EventInvoiceUpdated      = "invoice-updated"
	EventJobUpdated          = "job-updated"
	EventJobAssigned         = "job-assigned"
	EventPhotoUploaded       = "photo-uploaded"
	EventAutomationTriggered = "automation-triggered"
)

type Event struct {
	Name  string    `json:"event"`
	Rooms []string  `json:"rooms"`
	Data  any       `json:"data"`
	At    time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Broker interface {
	Publisher
	// Subscribe streams the events of one room until cancel is called.
	Subscribe(ctx context.Context, room string) (<-chan Event, func(), error)
}

// Emit publishes ev and only logs failures.
func Emit(ctx context.Context, p Publisher, name string, data any, rooms ...string) {
	if p == nil {
		return
	}
	if len(rooms) == 0 {
		rooms = []string{RoomAdmin}
	}
	ev := Event{Name: name, Rooms: rooms, Data: data, At: time.Now().UTC()}
	if err := p.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("realtime publish failed", "event", name, "error", err)
	}
}
