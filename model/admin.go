package model

import (
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
)

// Admin is an account allowed into the admin area. Password holds a
// bcrypt hash, never the plain text.
type Admin struct {
	gorm.Model
	Username string   `json:"username" gorm:"size:100;uniqueIndex"`
	Password string   `json:"-"`
	Role     UserRole `json:"role" gorm:"size:20"`
}
