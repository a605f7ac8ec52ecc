package realtime

import (
	"context"
	"testing"
	"time"
)

func TestHubRoutesByRoom(t *testing.T) {
	h := NewHub()
	ctx := context.Background()

	admin, cancelAdmin, _ := h.Subscribe(ctx, RoomAdmin)
	defer cancelAdmin()
	staff, cancelStaff, _ := h.Subscribe(ctx, RoomStaff)
	defer cancelStaff()

	Emit(ctx, h, EventInvoiceUpdated, map[string]any{"id": 1})
	Emit(ctx, h, EventJobAssigned, map[string]any{"id": 2}, RoomStaff, RoomAdmin)

	got := func(ch <-chan Event) []string {
		var names []string
		timeout := time.After(time.Second)
		for {
			select {
			case ev := <-ch:
				names = append(names, ev.Name)
			case <-timeout:
				return names
			default:
				if len(names) > 0 {
					return names
				}
				time.Sleep(5 * time.Millisecond)
			}
		}
	}

	adminNames := got(admin)
	if len(adminNames) != 2 || adminNames[0] != EventInvoiceUpdated || adminNames[1] != EventJobAssigned {
		t.Fatalf("admin room got %v", adminNames)
	}
	staffNames := got(staff)
	if len(staffNames) != 1 || staffNames[0] != EventJobAssigned {
		t.Fatalf("staff room got %v", staffNames)
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	h := NewHub()
	ch, cancel, _ := h.Subscribe(context.Background(), RoomAdmin)
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
	if err := h.Publish(context.Background(), Event{Name: EventJobUpdated, Rooms: []string{RoomAdmin}}); err != nil {
		t.Fatalf("publish after cancel: %v", err)
	}
}

func TestEmitToleratesNilPublisher(t *testing.T) {
	Emit(context.Background(), nil, EventJobUpdated, nil)
}
