package models

import "time"

type PushSubscription struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID   uint   `gorm:"index;not null" json:"user_id"`
	Endpoint string `gorm:"size:500;uniqueIndex;not null" json:"endpoint"`
	P256dh   string `gorm:"size:255;not null" json:"p256dh"`
	Auth     string `gorm:"size:255;not null" json:"auth"`

	CreatedAt time.Time `json:"created_at"`
}
