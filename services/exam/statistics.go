package exam

import (
	"strconv"

	examModels "elms/models/exam"
)

// TemplateStatistics is the on-demand rollup for one template. Nothing here
// is cached; every read derives from the answer and aggregate rows.
type TemplateStatistics struct {
	Participants   int     `json:"participants"`
	SubmittedCount int     `json:"submitted_count"`
	TotalEnrolled  int     `json:"total_enrolled"`
	SubmissionRate string  `json:"submission_rate"`
	GradedCount    int     `json:"graded_count"`
	GradingRate    string  `json:"grading_rate"`
	AverageScore   float64 `json:"average_score"`
}

// Statistics derives participation, grading progress and the average score
// for a template. Submission is all-or-nothing, so every participant counts
// as submitted; the average covers fully-graded students only.
func (s *Service) Statistics(templateID uint) (*TemplateStatistics, error) {
	template, err := s.loadTemplate(templateID)
	if err != nil {
		return nil, err
	}

	var enrolled int64
	if err := s.db.Model(&examModels.Enrollment{}).
		Where("course_group_id = ? AND is_deleted = false", template.CourseGroupID).
		Count(&enrolled).Error; err != nil {
		return nil, err
	}

	var answers []examModels.StudentAnswer
	if err := s.db.
		Joins("JOIN exam_questions ON exam_questions.id = student_answers.exam_question_id").
		Where("exam_questions.exam_template_id = ?", template.ID).
		Find(&answers).Error; err != nil {
		return nil, err
	}

	totals := make(map[uint]int)
	hasUngraded := make(map[uint]bool)
	for _, a := range answers {
		totals[a.StudentID] += a.Score
		if a.GradedAt == nil {
			hasUngraded[a.StudentID] = true
		}
	}

	gradedCount := 0
	gradedSum := 0
	for studentID, total := range totals {
		if hasUngraded[studentID] {
			continue
		}
		gradedCount++
		gradedSum += total
	}

	stats := TemplateStatistics{
		Participants:   len(totals),
		SubmittedCount: len(totals),
		TotalEnrolled:  int(enrolled),
		SubmissionRate: percent(len(totals), int(enrolled)),
		GradedCount:    gradedCount,
		GradingRate:    percent(gradedCount, len(totals)),
	}
	if gradedCount > 0 {
		stats.AverageScore = float64(gradedSum) / float64(gradedCount)
	}
	return &stats, nil
}

// percent renders an integer percentage; a zero denominator reads as "0%"
// rather than failing.
func percent(part, whole int) string {
	if whole <= 0 {
		return "0%"
	}
	return strconv.Itoa(part*100/whole) + "%"
}
