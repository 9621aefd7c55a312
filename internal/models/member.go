package models

import "time"

// ===============================
// Member roles
// ===============================

const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

type Member struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	OrgID uint `gorm:"index" json:"org_id"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Email  string `gorm:"size:100" json:"email"`
	Role   string `gorm:"size:20;default:'staff'" json:"role"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
