package exam

import "gorm.io/gorm"

// CourseGroup is the course binding an exam template belongs to. Enrollment
// resolution and display fields come from here; everything else about course
// management lives outside this service.
type CourseGroup struct {
	gorm.Model
	Name         string `json:"name"`
	Description  string `json:"description"`
	InstructorID uint   `json:"instructor_id" gorm:"index;not null"`
	IsDeleted    bool   `gorm:"default:false"`
}

// Enrollment records a student's membership in a course group
type Enrollment struct {
	gorm.Model
	UserID        uint `json:"user_id" gorm:"index;not null"`
	CourseGroupID uint `json:"course_group_id" gorm:"index;not null"`
	IsDeleted     bool `gorm:"default:false"`
}
