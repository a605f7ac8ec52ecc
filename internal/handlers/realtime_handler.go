package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/middleware"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
)

const keepAliveEvery = 25 * time.Second

type RealtimeHandler struct {
	broker realtime.Broker
	done   <-chan struct{}
}

// NewRealtimeHandler ends every open stream once done is closed. done may be nil.
func NewRealtimeHandler(broker realtime.Broker, done <-chan struct{}) *RealtimeHandler {
	return &RealtimeHandler{broker: broker, done: done}
}

// Stream is a server-sent events feed of the caller's role room. Staff only
// receive job events for jobs assigned to them.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		httperr.Unauthorized(c, httperr.CodeUnauthorized)
		return
	}

	room := realtime.RoomStaff
	if user.HasRole(models.RoleAdmin) {
		room = realtime.RoomAdmin
	}

	ctx := c.Request.Context()
	events, cancel, err := h.broker.Subscribe(ctx, room)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAliveEvery)
	defer ticker.Stop()

	c.SSEvent("ready", gin.H{"room": room, "user_id": user.ID})
	c.Writer.Flush()

	logging.FromContext(ctx).Debug("realtime stream opened", "user_id", user.ID, "room", room)

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-h.done:
			return false
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		case ev, ok := <-events:
			if !ok {
				return false
			}
			if room == realtime.RoomStaff && !visibleToStaff(ev, user.ID) {
				return true
			}
			c.SSEvent(ev.Name, ev)
			return true
		}
	})
}

// visibleToStaff hides job events about other staff members' jobs.
func visibleToStaff(ev realtime.Event, userID uint) bool {
	data, ok := ev.Data.(map[string]any)
	if !ok {
		return true
	}
	assigned, ok := data["assigned_to"]
	if !ok {
		return true
	}
	switch v := assigned.(type) {
	case *uint:
		return v != nil && *v == userID
	case uint:
		return v == userID
	case float64:
		return uint(v) == userID
	case nil:
		return false
	}
	return true
}
