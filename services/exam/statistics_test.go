package exam

import (
	"testing"

	examModels "elms/models/exam"

	"github.com/stretchr/testify/require"
)

func TestStatistics_ZeroEnrolledBoundary(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{{qType: examModels.QuestionObjective, correct: "B", points: 10}}, 0)

	stats, err := service.Statistics(f.template.ID)
	require.NoError(t, err)
	require.Zero(t, stats.Participants)
	require.Zero(t, stats.TotalEnrolled)
	require.Equal(t, "0%", stats.SubmissionRate)
	require.Equal(t, "0%", stats.GradingRate)
	require.Zero(t, stats.AverageScore)
}

func TestStatistics_MixedParticipation(t *testing.T) {
	service, db, _ := newTestService(t)
	f := buildFixture(t, db, []questionSpec{
		{qType: examModels.QuestionObjective, correct: "B", points: 10},
		{qType: examModels.QuestionText, points: 30},
	}, 4)

	// Two students submit: one gets the objective question right, one wrong
	_, err := service.Submit(f.template.ID, f.students[0], map[uint]string{
		f.bankItems[0].ID: "B",
		f.bankItems[1].ID: "essay",
	})
	require.NoError(t, err)
	_, err = service.Submit(f.template.ID, f.students[1], map[uint]string{
		f.bankItems[0].ID: "A",
		f.bankItems[1].ID: "essay",
	})
	require.NoError(t, err)

	stats, err := service.Statistics(f.template.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Participants)
	require.Equal(t, 2, stats.SubmittedCount)
	require.Equal(t, 4, stats.TotalEnrolled)
	require.Equal(t, "50%", stats.SubmissionRate)
	// Both students still hold ungraded text answers
	require.Zero(t, stats.GradedCount)
	require.Equal(t, "0%", stats.GradingRate)
	require.Zero(t, stats.AverageScore)

	// Grade both text answers; now everyone is fully graded
	ungraded, err := service.ListUngraded(f.template.ID)
	require.NoError(t, err)
	require.Len(t, ungraded, 2)
	for _, answer := range ungraded {
		_, err := service.GradeAnswer(answer.ID, 20, "")
		require.NoError(t, err)
	}

	stats, err = service.Statistics(f.template.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.GradedCount)
	require.Equal(t, "100%", stats.GradingRate)
	// Totals: 10+20=30 and 0+20=20, mean 25
	require.InDelta(t, 25.0, stats.AverageScore, 0.001)
}

func TestStatistics_FillInsCountAsSubmitted(t *testing.T) {
	service, db, clock := newTestService(t)
	f := buildFixture(t, db, []questionSpec{
		{qType: examModels.QuestionObjective, correct: "B", points: 10},
	}, 2)
	expire(t, service, &f, clock)

	require.Len(t, service.SweepExpired(), 1)

	stats, err := service.Statistics(f.template.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Participants)
	require.Equal(t, "100%", stats.SubmissionRate)
	// Fill-ins are graded zeros, so everyone counts as fully graded
	require.Equal(t, 2, stats.GradedCount)
	require.Equal(t, "100%", stats.GradingRate)
	require.Zero(t, stats.AverageScore)
}

func TestStatistics_TemplateNotFound(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Statistics(9999)
	require.ErrorIs(t, err, ErrTemplateNotFound)
}
