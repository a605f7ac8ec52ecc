package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/middleware"
)

// writeAudit queues an activity row for the management handlers that talk to
// the store directly. rec may be nil.
func writeAudit(
	c *gin.Context,
	rec audit.Recorder,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	if rec == nil {
		return
	}

	var actor *uint
	if u := middleware.CurrentUser(c); u != nil {
		actor = audit.ID(u.ID)
	}

	rec.Dispatch(audit.Event{
		ActorID:    actor,
		Action:     action,
		EntityType: entity,
		EntityID:   audit.ID(entityID),
		Detail:     meta,
	})
}
