package models

import (
	"time"

	"gorm.io/gorm"
)

type Job struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint     `gorm:"index;not null" json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer"`

	ServiceID uint    `gorm:"index;not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	AssignedTo   *uint `gorm:"index" json:"assigned_to"`
	AssignedUser *User `gorm:"foreignKey:AssignedTo;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"assigned_user,omitempty"`

	JobDate  time.Time `gorm:"type:date;index;not null" json:"job_date"`
	JobTime  string    `gorm:"size:5" json:"job_time"`
	Location string    `gorm:"size:255" json:"location"`
	Notes    string    `gorm:"type:text" json:"notes"`

	Status       string  `gorm:"size:20;index;default:'scheduled'" json:"status"`
	ServicePrice float64 `gorm:"type:decimal(10,2);default:0" json:"service_price"`

	FollowUpSent bool `gorm:"default:false" json:"follow_up_sent"`
	ReminderSent bool `gorm:"default:false" json:"reminder_sent"`

	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
