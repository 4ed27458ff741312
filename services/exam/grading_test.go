package exam

import (
	"testing"

	examModels "elms/models/exam"

	"github.com/stretchr/testify/require"
)

func TestGradeAnswer_TextQuestion(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{{qType: examModels.QuestionText, points: 30}}, 1)

	_, err := service.Submit(f.template.ID, f.students[0], map[uint]string{f.bankItems[0].ID: "essay"})
	require.NoError(t, err)

	var answer examModels.StudentAnswer
	require.NoError(t, db.Where("student_id = ?", f.students[0]).First(&answer).Error)
	require.Nil(t, answer.GradedAt)

	graded, err := service.GradeAnswer(answer.ID, 25, "good reasoning")
	require.NoError(t, err)
	require.Equal(t, 25, graded.Score)
	require.Equal(t, "good reasoning", graded.Comment)
	require.NotNil(t, graded.GradedAt)
}

func TestGradeAnswer_RejectsAutoGradable(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{{qType: examModels.QuestionObjective, correct: "B", points: 10}}, 1)

	_, err := service.Submit(f.template.ID, f.students[0], map[uint]string{f.bankItems[0].ID: "A"})
	require.NoError(t, err)

	var answer examModels.StudentAnswer
	require.NoError(t, db.Where("student_id = ?", f.students[0]).First(&answer).Error)

	_, err = service.GradeAnswer(answer.ID, 10, "manual override")
	require.ErrorIs(t, err, ErrInvalidGradingTarget)

	// No mutation happened
	var unchanged examModels.StudentAnswer
	require.NoError(t, db.First(&unchanged, answer.ID).Error)
	require.Equal(t, 0, unchanged.Score)
	require.Empty(t, unchanged.Comment)
}

func TestGradeAnswer_NotFound(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.GradeAnswer(9999, 10, "")
	require.ErrorIs(t, err, ErrAnswerNotFound)
}

func TestGradeAnswer_FlipsAggregateGradedFlag(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{{qType: examModels.QuestionText, points: 30}}, 1)

	_, err := service.Submit(f.template.ID, f.students[0], map[uint]string{f.bankItems[0].ID: "essay"})
	require.NoError(t, err)

	aggregate := examModels.StudentScoreAggregate{
		ExamTemplateID: f.template.ID,
		StudentID:      f.students[0],
		Graded:         examModels.AggregatePending,
	}
	require.NoError(t, db.Create(&aggregate).Error)

	var answer examModels.StudentAnswer
	require.NoError(t, db.Where("student_id = ?", f.students[0]).First(&answer).Error)

	_, err = service.GradeAnswer(answer.ID, 20, "")
	require.NoError(t, err)

	var updated examModels.StudentScoreAggregate
	require.NoError(t, db.First(&updated, aggregate.ID).Error)
	require.Equal(t, examModels.AggregateGraded, updated.Graded)
}

func TestFinalizeScore_SumsAnswers(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{
		{qType: examModels.QuestionObjective, correct: "B", points: 10},
		{qType: examModels.QuestionObjective, correct: "C", points: 15},
	}, 1)

	_, err := service.Submit(f.template.ID, f.students[0], map[uint]string{
		f.bankItems[0].ID: "B",
		f.bankItems[1].ID: "C",
	})
	require.NoError(t, err)

	aggregate, err := service.FinalizeScore(f.template.ID, f.students[0])
	require.NoError(t, err)
	require.Equal(t, 25, aggregate.TotalScore)
	require.Equal(t, examModels.AggregateGraded, aggregate.Graded)
	require.Equal(t, examModels.AggregateVisible, aggregate.IsChecked)
}

func TestFinalizeScore_PendingWhileUngradedAnswersRemain(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{
		{qType: examModels.QuestionObjective, correct: "B", points: 10},
		{qType: examModels.QuestionText, points: 30},
	}, 1)

	_, err := service.Submit(f.template.ID, f.students[0], map[uint]string{
		f.bankItems[0].ID: "B",
		f.bankItems[1].ID: "essay",
	})
	require.NoError(t, err)

	aggregate, err := service.FinalizeScore(f.template.ID, f.students[0])
	require.NoError(t, err)
	require.Equal(t, 10, aggregate.TotalScore)
	require.Equal(t, examModels.AggregatePending, aggregate.Graded)
}

func TestFinalizeScore_DuplicateRejected(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{{qType: examModels.QuestionObjective, correct: "B", points: 10}}, 1)

	_, err := service.Submit(f.template.ID, f.students[0], map[uint]string{f.bankItems[0].ID: "B"})
	require.NoError(t, err)

	first, err := service.FinalizeScore(f.template.ID, f.students[0])
	require.NoError(t, err)

	_, err = service.FinalizeScore(f.template.ID, f.students[0])
	require.ErrorIs(t, err, ErrAggregateExists)

	// The original survives untouched
	var aggregate examModels.StudentScoreAggregate
	require.NoError(t, db.First(&aggregate, first.ID).Error)
	require.Equal(t, first.TotalScore, aggregate.TotalScore)
}

func TestListUngraded(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{
		{qType: examModels.QuestionObjective, correct: "B", points: 10},
		{qType: examModels.QuestionText, points: 30},
	}, 2)

	for _, studentID := range f.students {
		_, err := service.Submit(f.template.ID, studentID, map[uint]string{
			f.bankItems[0].ID: "B",
			f.bankItems[1].ID: "essay",
		})
		require.NoError(t, err)
	}

	ungraded, err := service.ListUngraded(f.template.ID)
	require.NoError(t, err)
	require.Len(t, ungraded, 2) // one text answer per student
	for _, answer := range ungraded {
		require.Nil(t, answer.GradedAt)
	}
}
