package models

import "gorm.io/gorm"

const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
)

// User represents a platform member (student or instructor)
type User struct {
	gorm.Model
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Password  string `json:"-"`
	Role      string `json:"role" gorm:"default:'STUDENT'"` // STUDENT, INSTRUCTOR
	IsDeleted bool   `gorm:"default:false"`
}
