package exam

import (
	"testing"
	"time"

	examModels "elms/models/exam"

	"github.com/stretchr/testify/require"
)

func bankItem(t *testing.T, service *Service, qType string) examModels.QuestionBank {
	t.Helper()
	item := examModels.QuestionBank{Type: qType, Title: "Question", CorrectOption: "B", OwnerID: 1}
	require.NoError(t, service.db.Create(&item).Error)
	return item
}

func TestCreateTemplate_BindsQuestions(t *testing.T) {
	service, db, clock := newTestService(t)

	group := examModels.CourseGroup{Name: "Algorithms 101", InstructorID: 1}
	require.NoError(t, db.Create(&group).Error)

	q1 := bankItem(t, service, examModels.QuestionObjective)
	q2 := bankItem(t, service, examModels.QuestionText)

	openAt := clock.t.Add(time.Hour)
	closeAt := clock.t.Add(2 * time.Hour)
	template, err := service.CreateTemplate(CreateTemplateInput{
		Name:            "Midterm",
		DurationMinutes: 60,
		OpenAt:          &openAt,
		CloseAt:         &closeAt,
		OwnerID:         1,
		CourseGroupID:   group.ID,
		Questions: []QuestionBinding{
			{QuestionBankID: q1.ID, Points: 10},
			{QuestionBankID: q2.ID, Points: 30},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, template.QuestionCount)
	require.Equal(t, examModels.TemplateOpen, template.Active)

	detail, err := service.GetTemplate(template.ID)
	require.NoError(t, err)
	require.Len(t, detail.Questions, 2)
	require.Equal(t, "Algorithms 101", detail.CourseGroup.Name)
}

func TestCreateTemplate_UnknownQuestionRejected(t *testing.T) {
	service, db, _ := newTestService(t)

	group := examModels.CourseGroup{Name: "Algorithms 101", InstructorID: 1}
	require.NoError(t, db.Create(&group).Error)

	_, err := service.CreateTemplate(CreateTemplateInput{
		Name:          "Midterm",
		OwnerID:       1,
		CourseGroupID: group.ID,
		Questions:     []QuestionBinding{{QuestionBankID: 9999, Points: 10}},
	})
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestUpdateTemplate_RejectedMidWindow(t *testing.T) {
	service, db, clock := newTestService(t)
	f := buildFixture(t, db, []questionSpec{{qType: examModels.QuestionObjective, correct: "B", points: 10}}, 1)

	openAt := clock.t.Add(-time.Hour)
	closeAt := clock.t.Add(time.Hour)
	f.template.OpenAt = &openAt
	f.template.CloseAt = &closeAt
	require.NoError(t, db.Save(&f.template).Error)

	name := "Renamed"
	_, err := service.UpdateTemplate(f.template.ID, UpdateTemplateInput{Name: &name})
	require.ErrorIs(t, err, ErrExamInProgress)

	// After the window closes via the sweep, the template is terminal
	clock.Advance(2 * time.Hour)
	require.Len(t, service.SweepExpired(), 1)
	_, err = service.UpdateTemplate(f.template.ID, UpdateTemplateInput{Name: &name})
	require.ErrorIs(t, err, ErrTemplateClosed)
}

func TestReplaceQuestions_AllOrNothingResync(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{
		{qType: examModels.QuestionObjective, correct: "B", points: 10},
		{qType: examModels.QuestionObjective, correct: "C", points: 10},
	}, 1)

	q3 := bankItem(t, service, examModels.QuestionText)

	template, err := service.ReplaceQuestions(f.template.ID, []QuestionBinding{
		{QuestionBankID: q3.ID, Points: 50},
	})
	require.NoError(t, err)
	require.Equal(t, 1, template.QuestionCount)

	var bindings []examModels.ExamQuestion
	require.NoError(t, db.Where("exam_template_id = ?", f.template.ID).Find(&bindings).Error)
	require.Len(t, bindings, 1)
	require.Equal(t, q3.ID, bindings[0].QuestionBankID)
	require.Equal(t, 50, bindings[0].Points)
}

func TestCloseTemplate_ExplicitCloseOutsideWindow(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{{qType: examModels.QuestionObjective, correct: "B", points: 10}}, 1)

	template, err := service.CloseTemplate(f.template.ID)
	require.NoError(t, err)
	require.Equal(t, examModels.TemplateClosed, template.Active)

	// Closed is terminal
	_, err = service.CloseTemplate(f.template.ID)
	require.ErrorIs(t, err, ErrTemplateClosed)
}

func TestCloseTemplate_RejectedMidWindow(t *testing.T) {
	service, db, clock := newTestService(t)
	f := buildFixture(t, db, []questionSpec{{qType: examModels.QuestionObjective, correct: "B", points: 10}}, 1)

	openAt := clock.t.Add(-time.Minute)
	closeAt := clock.t.Add(time.Hour)
	f.template.OpenAt = &openAt
	f.template.CloseAt = &closeAt
	require.NoError(t, db.Save(&f.template).Error)

	_, err := service.CloseTemplate(f.template.ID)
	require.ErrorIs(t, err, ErrExamInProgress)
}
