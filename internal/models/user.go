package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:30" json:"phone"`
	Role         string `gorm:"size:20;default:'staff'" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`

	TerminatedAt *time.Time `json:"terminated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRole compares roles case-insensitively; legacy rows carry "Admin"/"Staff".
func (u *User) HasRole(role string) bool {
	return strings.EqualFold(strings.TrimSpace(u.Role), role)
}

// CanWork reports whether the user may log in and receive job assignments.
func (u *User) CanWork() bool {
	return u.Active && u.TerminatedAt == nil
}
