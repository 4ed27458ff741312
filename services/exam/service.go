package exam

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Sentinel errors surfaced to controllers. None are process-fatal; every one
// is request-scoped or tick-scoped.
var (
	ErrTemplateNotFound       = errors.New("exam template not found")
	ErrCourseGroupNotFound    = errors.New("course group not found")
	ErrQuestionNotFound       = errors.New("question not found")
	ErrAnswerNotFound         = errors.New("answer not found")
	ErrTemplateClosed         = errors.New("exam template is closed")
	ErrExamInProgress         = errors.New("exam is in progress")
	ErrDuplicateSubmission    = errors.New("student already submitted this exam")
	ErrInvalidGradingTarget   = errors.New("auto-graded answers cannot be graded manually")
	ErrAggregateExists        = errors.New("score aggregate already exists for this student")
	ErrUnresolvableEnrollment = errors.New("could not resolve enrolled students")
)

// Service is the exam lifecycle and grading engine. The clock is injected so
// scheduler behavior can be tested by simulating time passing a close
// deadline instead of waiting on a real timer.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func NewServiceWithClock(db *gorm.DB, now func() time.Time) *Service {
	return &Service{db: db, now: now}
}
