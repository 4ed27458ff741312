package exam

import (
	"errors"
	"time"

	examModels "elms/models/exam"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionResult summarizes what one submission wrote.
type SubmissionResult struct {
	ReceiptID             string    `json:"receipt_id"`
	TotalProvisionalScore int       `json:"total_provisional_score"`
	AnsweredCount         int       `json:"answered_count"`
	SubmittedAt           time.Time `json:"submitted_at"`
}

// errAnswerExists signals that a row for the (question, student) pair landed
// before our insert. Internal to the per-question write path.
var errAnswerExists = errors.New("answer already exists")

// Submit writes one student's complete answer set for a template. Exams are
// submit-once: if the student already has any answer under the template, the
// whole submission is rejected and nothing is written. Auto-gradable
// questions are scored by verbatim match against the stored correct option;
// everything else gets a provisional zero awaiting manual grading.
//
// Each answer is inserted in its own check-then-insert transaction. Losing
// the race against a scheduler fill-in on one question skips that question
// and continues with the rest.
func (s *Service) Submit(templateID, studentID uint, answers map[uint]string) (*SubmissionResult, error) {
	template, err := s.loadTemplate(templateID)
	if err != nil {
		return nil, err
	}
	if template.Active == examModels.TemplateClosed {
		return nil, ErrTemplateClosed
	}

	var questions []examModels.ExamQuestion
	if err := s.db.Where("exam_template_id = ?", template.ID).
		Order("id asc").Find(&questions).Error; err != nil {
		return nil, err
	}

	questionIDs := make([]uint, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}

	// Submit-once policy: any prior answer on this template rejects the whole
	// submission before a single row is written.
	if len(questionIDs) > 0 {
		var prior int64
		if err := s.db.Model(&examModels.StudentAnswer{}).
			Where("exam_question_id IN ? AND student_id = ?", questionIDs, studentID).
			Count(&prior).Error; err != nil {
			return nil, err
		}
		if prior > 0 {
			return nil, ErrDuplicateSubmission
		}
	}

	now := s.now()
	result := SubmissionResult{
		ReceiptID:   uuid.NewString(),
		SubmittedAt: now,
	}

	for _, q := range questions {
		var bankItem examModels.QuestionBank
		if err := s.db.First(&bankItem, q.QuestionBankID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrQuestionNotFound
			}
			return nil, err
		}

		answer := examModels.StudentAnswer{
			ExamQuestionID: q.ID,
			StudentID:      studentID,
			AnswerText:     answers[q.QuestionBankID],
		}
		if examModels.AutoGradable(bankItem.Type) {
			if answer.AnswerText == bankItem.CorrectOption {
				answer.Score = q.Points
			}
			gradedAt := now
			answer.GradedAt = &gradedAt
		}

		if err := s.insertAnswer(&answer); err != nil {
			if errors.Is(err, errAnswerExists) {
				// A scheduler fill-in landed first; keep going with the rest.
				continue
			}
			return nil, err
		}

		result.TotalProvisionalScore += answer.Score
		result.AnsweredCount++
	}

	return &result, nil
}

// insertAnswer re-checks for an existing (question, student) row inside the
// same transaction as the insert. The unique index on the pair is the last
// line of defense if two writers pass the check simultaneously.
func (s *Service) insertAnswer(answer *examModels.StudentAnswer) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing examModels.StudentAnswer
		err := tx.Where("exam_question_id = ? AND student_id = ?",
			answer.ExamQuestionID, answer.StudentID).First(&existing).Error
		if err == nil {
			return errAnswerExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(answer).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errAnswerExists
	}
	return err
}
