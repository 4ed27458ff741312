package exam

import (
	"time"

	"gorm.io/gorm"
)

// Template active flag values
const (
	TemplateOpen   = 0 // open or schedulable
	TemplateClosed = 1 // closed, terminal
)

// ExamTemplate is the exam definition. Never deleted, only closed: the
// scheduler or an explicit instructor close flips Active to TemplateClosed
// and there is no way back.
type ExamTemplate struct {
	gorm.Model
	Name            string     `json:"name" gorm:"not null"`
	DurationMinutes int        `json:"duration_minutes" gorm:"default:0"`
	OpenAt          *time.Time `json:"open_at"`
	CloseAt         *time.Time `json:"close_at"`
	Active          int        `json:"active" gorm:"default:0;index"` // 0 open/schedulable, 1 closed
	OwnerID         uint       `json:"owner_id" gorm:"index;not null"`
	CourseGroupID   uint       `json:"course_group_id" gorm:"index;not null"`
	// Denormalized; resynchronized to the actual binding count on every rebind
	QuestionCount int `json:"question_count" gorm:"default:0"`
}

// InProgress reports whether now falls strictly inside the exam window.
// Mutations are rejected while a template is in progress.
func (t *ExamTemplate) InProgress(now time.Time) bool {
	if t.OpenAt == nil || t.CloseAt == nil {
		return false
	}
	return now.After(*t.OpenAt) && now.Before(*t.CloseAt)
}
