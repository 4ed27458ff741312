package exam

import (
	"errors"

	examModels "elms/models/exam"

	"gorm.io/gorm"
)

// GradeAnswer scores one manually-graded answer. Auto-gradable answers
// (objective/true-false) cannot be re-scored through this path. Concurrent
// grading of the same answer is last-writer-wins.
//
// If the student's score aggregate already exists its graded flag is flipped
// to complete. This mirrors the historical behavior: the flip is a
// best-effort signal after any single grade lands, not a check that every
// answer of the student is graded.
func (s *Service) GradeAnswer(answerID uint, score int, comment string) (*examModels.StudentAnswer, error) {
	var answer examModels.StudentAnswer
	if err := s.db.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnswerNotFound
		}
		return nil, err
	}

	var binding examModels.ExamQuestion
	if err := s.db.First(&binding, answer.ExamQuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	var bankItem examModels.QuestionBank
	if err := s.db.First(&bankItem, binding.QuestionBankID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	if examModels.AutoGradable(bankItem.Type) {
		return nil, ErrInvalidGradingTarget
	}

	now := s.now()
	answer.Score = score
	answer.Comment = comment
	answer.GradedAt = &now
	if err := s.db.Save(&answer).Error; err != nil {
		return nil, err
	}

	var aggregate examModels.StudentScoreAggregate
	err := s.db.Where("exam_template_id = ? AND student_id = ?",
		binding.ExamTemplateID, answer.StudentID).First(&aggregate).Error
	if err == nil {
		aggregate.Graded = examModels.AggregateGraded
		if err := s.db.Save(&aggregate).Error; err != nil {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &answer, nil
}

// FinalizeScore creates the per-student score aggregate from the sum of the
// student's answer scores under the template. Creation is rejected if an
// aggregate already exists: overwriting would erase instructor-entered
// comments and visibility.
func (s *Service) FinalizeScore(templateID, studentID uint) (*examModels.StudentScoreAggregate, error) {
	if _, err := s.loadTemplate(templateID); err != nil {
		return nil, err
	}

	var aggregate examModels.StudentScoreAggregate
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing examModels.StudentScoreAggregate
		err := tx.Where("exam_template_id = ? AND student_id = ?",
			templateID, studentID).First(&existing).Error
		if err == nil {
			return ErrAggregateExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		total, err := sumAnswers(tx, templateID, studentID)
		if err != nil {
			return err
		}

		var ungraded int64
		if err := tx.Model(&examModels.StudentAnswer{}).
			Joins("JOIN exam_questions ON exam_questions.id = student_answers.exam_question_id").
			Where("exam_questions.exam_template_id = ? AND student_answers.student_id = ? AND student_answers.graded_at IS NULL",
				templateID, studentID).
			Count(&ungraded).Error; err != nil {
			return err
		}

		aggregate = examModels.StudentScoreAggregate{
			ExamTemplateID: templateID,
			StudentID:      studentID,
			TotalScore:     total,
			IsChecked:      examModels.AggregateVisible,
			Graded:         examModels.AggregateGraded,
		}
		if ungraded > 0 {
			aggregate.Graded = examModels.AggregatePending
		}
		return tx.Create(&aggregate).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAggregateExists
		}
		return nil, err
	}

	return &aggregate, nil
}

// ListUngraded returns the answers under a template still awaiting manual
// grading, oldest first.
func (s *Service) ListUngraded(templateID uint) ([]examModels.StudentAnswer, error) {
	if _, err := s.loadTemplate(templateID); err != nil {
		return nil, err
	}

	var answers []examModels.StudentAnswer
	err := s.db.
		Joins("JOIN exam_questions ON exam_questions.id = student_answers.exam_question_id").
		Where("exam_questions.exam_template_id = ? AND student_answers.graded_at IS NULL", templateID).
		Order("student_answers.id asc").
		Find(&answers).Error
	return answers, err
}
