package models

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ActorID    *uint          `gorm:"index" json:"actor_id"`
	Action     string         `gorm:"size:50;index;not null" json:"action"`
	EntityType string         `gorm:"size:50" json:"entity_type"`
	EntityID   *uint          `json:"entity_id"`
	Detail     datatypes.JSON `json:"detail"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_log" }
