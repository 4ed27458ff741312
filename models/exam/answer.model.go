package exam

import (
	"time"

	"gorm.io/gorm"
)

// FillInComment marks answers the auto-close scheduler generated for questions
// a student never answered before the deadline.
const FillInComment = "Auto-generated: exam deadline passed"

// StudentAnswer is one student's answer to one bound question. The composite
// unique index is the schema-level guarantee that a (question, student) pair
// never holds more than one row, whatever the interleaving of live submissions
// and scheduler fill-ins.
type StudentAnswer struct {
	gorm.Model
	ExamQuestionID uint       `json:"exam_question_id" gorm:"not null;uniqueIndex:idx_answer_question_student"`
	StudentID      uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_answer_question_student"`
	AnswerText     string     `json:"answer_text"` // empty = no answer
	Score          int        `json:"score" gorm:"default:0"`
	Comment        string     `json:"comment"`
	GradedAt       *time.Time `json:"graded_at"` // nil = awaiting manual grading
}

// Aggregate visibility values
const (
	AggregateVisible = 0 // student may view
	AggregateHidden  = 1 // hidden from student
)

// Aggregate grading-state values
const (
	AggregateGraded  = 0 // fully graded
	AggregatePending = 1 // grading pending
)

// StudentScoreAggregate is the per-student, per-template score rollup. At most
// one per (template, student); duplicate creation is rejected, never
// overwritten, so instructor-entered comments and visibility survive.
type StudentScoreAggregate struct {
	gorm.Model
	ExamTemplateID uint   `json:"exam_template_id" gorm:"not null;uniqueIndex:idx_aggregate_template_student"`
	StudentID      uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_aggregate_template_student"`
	TotalScore     int    `json:"total_score" gorm:"default:0"`
	IsChecked      int    `json:"is_checked" gorm:"default:0"` // 0 student may view, 1 hidden
	Graded         int    `json:"graded" gorm:"default:1"`     // 0 fully graded, 1 pending
	Comment        string `json:"comment"`
}
