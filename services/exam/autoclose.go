package exam

import (
	"errors"
	"log"
	"time"

	examModels "elms/models/exam"

	"gorm.io/gorm"
)

// SweepExpired is one scheduler tick: find templates whose close time has
// passed while still open, back-fill zero-score answers for every enrolled
// student with gaps, and mark the templates closed. Each template is an
// independent unit of work; a failure leaves that template open so the next
// tick retries it, and never stops the others.
//
// Returns the IDs of templates closed by this tick.
func (s *Service) SweepExpired() []uint {
	now := s.now()

	var templates []examModels.ExamTemplate
	if err := s.db.Where("active = ? AND close_at IS NOT NULL AND close_at < ?",
		examModels.TemplateOpen, now).Find(&templates).Error; err != nil {
		log.Printf("[EXAM-SCHEDULER] Error fetching expired templates: %v", err)
		return nil
	}

	var closed []uint
	for i := range templates {
		template := &templates[i]
		if err := s.closeExpired(template, now); err != nil {
			log.Printf("[EXAM-SCHEDULER] Template %d left open for retry: %v", template.ID, err)
			continue
		}
		log.Printf("[EXAM-SCHEDULER] Template %d closed", template.ID)
		closed = append(closed, template.ID)
	}
	return closed
}

// closeExpired fills gaps for every enrolled student and marks the template
// closed. Per-student failures are isolated: the remaining students are still
// processed, but the template stays open so the failed ones are retried.
func (s *Service) closeExpired(template *examModels.ExamTemplate, now time.Time) error {
	var enrollments []examModels.Enrollment
	if err := s.db.Where("course_group_id = ? AND is_deleted = false",
		template.CourseGroupID).Find(&enrollments).Error; err != nil {
		return err
	}
	if len(enrollments) == 0 {
		return ErrUnresolvableEnrollment
	}

	var questions []examModels.ExamQuestion
	if err := s.db.Where("exam_template_id = ?", template.ID).
		Order("id asc").Find(&questions).Error; err != nil {
		return err
	}

	failed := 0
	for _, e := range enrollments {
		if err := s.fillStudent(template, questions, e.UserID, now); err != nil {
			log.Printf("[EXAM-SCHEDULER] Template %d student %d fill-in failed: %v",
				template.ID, e.UserID, err)
			failed++
		}
	}
	if failed > 0 {
		return errors.New("one or more student fill-ins failed")
	}

	template.Active = examModels.TemplateClosed
	return s.db.Save(template).Error
}

// fillStudent inserts a synthetic zero-score answer for every bound question
// the student never answered, then creates the score aggregate unless one
// already exists. A student with no gaps is a no-op, which is what makes the
// sweep idempotent.
func (s *Service) fillStudent(template *examModels.ExamTemplate, questions []examModels.ExamQuestion, studentID uint, now time.Time) error {
	if len(questions) == 0 {
		return nil
	}

	questionIDs := make([]uint, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}

	var existing []examModels.StudentAnswer
	if err := s.db.Where("exam_question_id IN ? AND student_id = ?",
		questionIDs, studentID).Find(&existing).Error; err != nil {
		return err
	}
	answered := make(map[uint]bool, len(existing))
	for _, a := range existing {
		answered[a.ExamQuestionID] = true
	}

	missing := 0
	for _, q := range questions {
		if answered[q.ID] {
			continue
		}
		missing++

		gradedAt := now
		fill := examModels.StudentAnswer{
			ExamQuestionID: q.ID,
			StudentID:      studentID,
			AnswerText:     "",
			Score:          0,
			Comment:        examModels.FillInComment,
			GradedAt:       &gradedAt,
		}
		if err := s.insertAnswer(&fill); err != nil {
			if errors.Is(err, errAnswerExists) {
				// A live submission won the race for this question.
				continue
			}
			return err
		}
	}

	if missing == 0 {
		return nil
	}

	return s.createFillAggregate(template.ID, studentID)
}

// createFillAggregate writes the deadline aggregate for a student: total is
// the sum of everything on record, hidden from the student, marked fully
// graded since every gap now holds a graded zero. An existing aggregate is
// left untouched.
func (s *Service) createFillAggregate(templateID, studentID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing examModels.StudentScoreAggregate
		err := tx.Where("exam_template_id = ? AND student_id = ?",
			templateID, studentID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		total, err := sumAnswers(tx, templateID, studentID)
		if err != nil {
			return err
		}

		aggregate := examModels.StudentScoreAggregate{
			ExamTemplateID: templateID,
			StudentID:      studentID,
			TotalScore:     total,
			IsChecked:      examModels.AggregateHidden,
			Graded:         examModels.AggregateGraded,
		}
		return tx.Create(&aggregate).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// sumAnswers totals every answer score a student holds under a template.
func sumAnswers(tx *gorm.DB, templateID, studentID uint) (int, error) {
	var total int64
	err := tx.Model(&examModels.StudentAnswer{}).
		Joins("JOIN exam_questions ON exam_questions.id = student_answers.exam_question_id").
		Where("exam_questions.exam_template_id = ? AND student_answers.student_id = ?",
			templateID, studentID).
		Select("COALESCE(SUM(student_answers.score), 0)").
		Scan(&total).Error
	return int(total), err
}
