package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

// ======================================================
// HANDLER
// ======================================================

type ActivityLogHandler struct {
	db *gorm.DB
	tz string
}

func NewActivityLogHandler(db *gorm.DB, tz string) *ActivityLogHandler {
	return &ActivityLogHandler{db: db, tz: tz}
}

// List filters by ?action, ?entity_type, ?entity_id, ?actor_id and an
// optional ?from/?to date range.
func (h *ActivityLogHandler) List(c *gin.Context) {
	page, limit := usecase.Page(queryInt(c, "page"), queryInt(c, "limit"))

	q := h.db.WithContext(c.Request.Context()).Model(&models.ActivityLog{})

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity_type"); entity != "" {
		q = q.Where("entity_type = ?", entity)
	}
	if id := queryUint(c, "entity_id"); id != nil {
		q = q.Where("entity_id = ?", *id)
	}
	if id := queryUint(c, "actor_id"); id != nil {
		q = q.Where("actor_id = ?", *id)
	}
	if c.Query("from") != "" || c.Query("to") != "" {
		from, to, ok := dateRange(c, h.tz, 0)
		if !ok {
			httperr.BadRequest(c, httperr.CodeValidation, "from/to must be YYYY-MM-DD with from <= to.")
			return
		}
		q = q.Where("created_at >= ? AND created_at < ?", from, to)
	}

	// --------------------------------------------------
	// Total + page
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var logs []models.ActivityLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, logs, httpresp.NewPagination(page, limit, total))
}
