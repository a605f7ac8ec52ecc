package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is never hard-deleted; DeletedAt hides it from default scopes.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:150;not null" json:"name"`
	Phone   string `gorm:"size:30" json:"phone"`
	Email   string `gorm:"size:150;index" json:"email"`
	Address string `gorm:"size:255" json:"address"`
	Notes   string `gorm:"type:text" json:"notes"`

	ReengagementSentAt *time.Time `json:"reengagement_sent_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
