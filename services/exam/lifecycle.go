package exam

import (
	"errors"
	"time"

	examModels "elms/models/exam"

	"gorm.io/gorm"
)

// QuestionBinding attaches a question bank item to a template with the point
// value it is worth in this exam.
type QuestionBinding struct {
	QuestionBankID uint
	Points         int
}

// CreateTemplateInput carries everything needed to assemble an exam.
type CreateTemplateInput struct {
	Name            string
	DurationMinutes int
	OpenAt          *time.Time
	CloseAt         *time.Time
	OwnerID         uint
	CourseGroupID   uint
	Questions       []QuestionBinding
}

// UpdateTemplateInput carries the mutable template fields. Nil pointers leave
// the current value untouched; Questions nil means keep the current bindings.
type UpdateTemplateInput struct {
	Name            *string
	DurationMinutes *int
	OpenAt          *time.Time
	CloseAt         *time.Time
	Questions       []QuestionBinding
}

// TemplateDetail is a template with its bindings and course display fields
// resolved.
type TemplateDetail struct {
	Template    examModels.ExamTemplate   `json:"template"`
	CourseGroup examModels.CourseGroup    `json:"course_group"`
	Questions   []examModels.ExamQuestion `json:"questions"`
}

// CreateTemplate assembles a new exam template with its question bindings in
// one transaction. The denormalized question count always reflects the
// binding rows actually written.
func (s *Service) CreateTemplate(input CreateTemplateInput) (*examModels.ExamTemplate, error) {
	var group examModels.CourseGroup
	if err := s.db.Where("id = ? AND is_deleted = false", input.CourseGroupID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseGroupNotFound
		}
		return nil, err
	}

	if err := s.validateBindings(input.Questions); err != nil {
		return nil, err
	}

	template := examModels.ExamTemplate{
		Name:            input.Name,
		DurationMinutes: input.DurationMinutes,
		OpenAt:          input.OpenAt,
		CloseAt:         input.CloseAt,
		Active:          examModels.TemplateOpen,
		OwnerID:         input.OwnerID,
		CourseGroupID:   input.CourseGroupID,
		QuestionCount:   len(input.Questions),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&template).Error; err != nil {
			return err
		}
		for _, b := range input.Questions {
			binding := examModels.ExamQuestion{
				QuestionBankID: b.QuestionBankID,
				ExamTemplateID: template.ID,
				Points:         b.Points,
			}
			if err := tx.Create(&binding).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &template, nil
}

// UpdateTemplate mutates a template outside its open window. Rebinding, when
// requested, is all-or-nothing: the existing set is dropped and the new one
// inserted in the same transaction, then the question count resynchronized.
func (s *Service) UpdateTemplate(templateID uint, input UpdateTemplateInput) (*examModels.ExamTemplate, error) {
	template, err := s.loadTemplate(templateID)
	if err != nil {
		return nil, err
	}
	if template.Active == examModels.TemplateClosed {
		return nil, ErrTemplateClosed
	}
	if template.InProgress(s.now()) {
		return nil, ErrExamInProgress
	}

	if input.Name != nil {
		template.Name = *input.Name
	}
	if input.DurationMinutes != nil {
		template.DurationMinutes = *input.DurationMinutes
	}
	if input.OpenAt != nil {
		template.OpenAt = input.OpenAt
	}
	if input.CloseAt != nil {
		template.CloseAt = input.CloseAt
	}

	if input.Questions != nil {
		if err := s.validateBindings(input.Questions); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if input.Questions != nil {
			if err := rebindQuestions(tx, template, input.Questions); err != nil {
				return err
			}
		}
		return tx.Save(template).Error
	})
	if err != nil {
		return nil, err
	}

	return template, nil
}

// ReplaceQuestions swaps a template's bound question set in one transaction.
func (s *Service) ReplaceQuestions(templateID uint, bindings []QuestionBinding) (*examModels.ExamTemplate, error) {
	template, err := s.loadTemplate(templateID)
	if err != nil {
		return nil, err
	}
	if template.Active == examModels.TemplateClosed {
		return nil, ErrTemplateClosed
	}
	if template.InProgress(s.now()) {
		return nil, ErrExamInProgress
	}
	if err := s.validateBindings(bindings); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := rebindQuestions(tx, template, bindings); err != nil {
			return err
		}
		return tx.Save(template).Error
	})
	if err != nil {
		return nil, err
	}

	return template, nil
}

// rebindQuestions deletes the current binding set, inserts the new one and
// resynchronizes the denormalized question count from the rows actually
// present. Runs inside the caller's transaction.
func rebindQuestions(tx *gorm.DB, template *examModels.ExamTemplate, bindings []QuestionBinding) error {
	if err := tx.Unscoped().Where("exam_template_id = ?", template.ID).
		Delete(&examModels.ExamQuestion{}).Error; err != nil {
		return err
	}
	for _, b := range bindings {
		binding := examModels.ExamQuestion{
			QuestionBankID: b.QuestionBankID,
			ExamTemplateID: template.ID,
			Points:         b.Points,
		}
		if err := tx.Create(&binding).Error; err != nil {
			return err
		}
	}

	var count int64
	if err := tx.Model(&examModels.ExamQuestion{}).
		Where("exam_template_id = ?", template.ID).Count(&count).Error; err != nil {
		return err
	}
	template.QuestionCount = int(count)
	return nil
}

// CloseTemplate is the explicit instructor close. It is rejected mid-window;
// only the scheduler's forced close may end a running exam.
func (s *Service) CloseTemplate(templateID uint) (*examModels.ExamTemplate, error) {
	template, err := s.loadTemplate(templateID)
	if err != nil {
		return nil, err
	}
	if template.Active == examModels.TemplateClosed {
		return nil, ErrTemplateClosed
	}
	if template.InProgress(s.now()) {
		return nil, ErrExamInProgress
	}

	template.Active = examModels.TemplateClosed
	if err := s.db.Save(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

// GetTemplate returns a template with its bindings and course display fields.
func (s *Service) GetTemplate(templateID uint) (*TemplateDetail, error) {
	template, err := s.loadTemplate(templateID)
	if err != nil {
		return nil, err
	}

	detail := TemplateDetail{Template: *template}
	if err := s.db.First(&detail.CourseGroup, template.CourseGroupID).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := s.db.Where("exam_template_id = ?", template.ID).
		Order("id asc").Find(&detail.Questions).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListTemplates returns all templates bound to a course group, newest first.
func (s *Service) ListTemplates(courseGroupID uint) ([]examModels.ExamTemplate, error) {
	var templates []examModels.ExamTemplate
	err := s.db.Where("course_group_id = ?", courseGroupID).
		Order("id desc").Find(&templates).Error
	return templates, err
}

func (s *Service) loadTemplate(templateID uint) (*examModels.ExamTemplate, error) {
	var template examModels.ExamTemplate
	if err := s.db.First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

// validateBindings checks every referenced bank item exists before any row is
// written.
func (s *Service) validateBindings(bindings []QuestionBinding) error {
	for _, b := range bindings {
		var question examModels.QuestionBank
		if err := s.db.Where("id = ? AND is_deleted = false", b.QuestionBankID).
			First(&question).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}
	}
	return nil
}
