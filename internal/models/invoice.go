package models

import (
	"time"

	"gorm.io/gorm"
)

// Invoice keeps CustomerID next to JobID so it still resolves its customer
// after the job is soft-deleted. At most one live invoice exists per job,
// enforced by the partial unique index on job_id.
type Invoice struct {
	ID uint `gorm:"primaryKey" json:"id"`

	JobID uint `gorm:"not null;uniqueIndex:idx_invoices_job_live,where:deleted_at IS NULL" json:"job_id"`
	Job   *Job `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"job,omitempty"`

	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer,omitempty"`

	InvoiceNumber string  `gorm:"size:20;uniqueIndex;not null" json:"invoice_number"`
	Amount        float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        string  `gorm:"size:20;index;default:'unpaid'" json:"status"`

	IssuedAt time.Time  `json:"issued_at"`
	DueDate  time.Time  `gorm:"index" json:"due_date"`
	PaidDate *time.Time `json:"paid_date"`

	ReminderSent bool   `gorm:"default:false" json:"reminder_sent"`
	PaymentLink  string `gorm:"size:500" json:"payment_link,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
