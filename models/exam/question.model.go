package exam

import "gorm.io/gorm"

// Question bank item types
const (
	QuestionObjective = "OBJECTIVE"  // multiple choice, single correct option
	QuestionTrueFalse = "TRUE_FALSE" // true/false
	QuestionText      = "TEXT"       // free-text, manually graded
	QuestionCode      = "CODE"       // code answer, manually graded
)

// QuestionBank is an instructor-authored question. Immutable after creation;
// exams reference it through ExamQuestion bindings with per-exam point values.
type QuestionBank struct {
	gorm.Model
	Type          string `json:"type" gorm:"not null"` // OBJECTIVE, TRUE_FALSE, TEXT, CODE
	Title         string `json:"title" gorm:"not null"`
	Body          string `json:"body"`
	Options       string `json:"options"`        // option texts, JSON array (objective types only)
	CorrectOption string `json:"correct_option"` // designated correct option text (auto-gradable types only)
	OwnerID       uint   `json:"owner_id" gorm:"index;not null"`
	IsDeleted     bool   `gorm:"default:false"`
}

// ExamQuestion binds a question bank item to one exam template with the point
// value it is worth in that exam.
type ExamQuestion struct {
	gorm.Model
	QuestionBankID uint `json:"question_bank_id" gorm:"index;not null"`
	ExamTemplateID uint `json:"exam_template_id" gorm:"index;not null"`
	Points         int  `json:"points" gorm:"default:0"`
}

// AutoGradable reports whether answers to this question type can be scored by
// exact match against the stored correct option.
func AutoGradable(questionType string) bool {
	return questionType == QuestionObjective || questionType == QuestionTrueFalse
}
