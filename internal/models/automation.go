package models

import "time"

type Automation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name            string `gorm:"size:100;not null" json:"name"`
	TriggerEvent    string `gorm:"size:50;index;not null" json:"trigger_event"`
	Channel         string `gorm:"size:20;not null" json:"channel"`
	Subject         string `gorm:"size:200" json:"subject"`
	MessageTemplate string `gorm:"type:text;not null" json:"message_template"`
	Enabled         bool   `gorm:"default:true" json:"enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
