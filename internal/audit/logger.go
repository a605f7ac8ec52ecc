package audit

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

// Logger appends rows to the activity log.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var detail datatypes.JSON
	if ev.Detail != nil {
		b, err := json.Marshal(ev.Detail)
		if err != nil {
			logging.FromContext(ctx).Error("activity detail not serializable, writing row without it",
				"action", ev.Action, "entity_type", ev.EntityType, "error", err)
		} else {
			detail = datatypes.JSON(b)
		}
	}

	row := models.ActivityLog{
		ActorID:    ev.ActorID,
		Action:     ev.Action,
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		Detail:     detail,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}
