package models

import "time"

type JobMedia struct {
	ID uint `gorm:"primaryKey" json:"id"`

	JobID      uint   `gorm:"index;not null" json:"job_id"`
	MediaType  string `gorm:"size:20;not null" json:"media_type"`
	FileKey    string `gorm:"size:255;not null" json:"file_key"`
	FileURL    string `gorm:"size:500" json:"file_url"`
	UploadedBy *uint  `json:"uploaded_by"`
	Notes      string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}
