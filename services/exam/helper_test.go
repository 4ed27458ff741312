package exam

import (
	"testing"
	"time"

	"elms/models"
	examModels "elms/models/exam"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testClock is a hand-settable clock for driving the scheduler and window
// guards without real timers.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see an empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&examModels.CourseGroup{},
		&examModels.Enrollment{},
		&examModels.QuestionBank{},
		&examModels.ExamTemplate{},
		&examModels.ExamQuestion{},
		&examModels.StudentAnswer{},
		&examModels.StudentScoreAggregate{},
	))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *testClock) {
	t.Helper()
	db := newTestDB(t)
	clock := &testClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	return NewServiceWithClock(db, clock.Now), db, clock
}

type questionSpec struct {
	qType   string
	correct string
	points  int
}

// fixture is a ready-made exam: one course group, enrolled students and a
// template with one binding per questionSpec.
type fixture struct {
	group     examModels.CourseGroup
	template  examModels.ExamTemplate
	questions []examModels.ExamQuestion
	bankItems []examModels.QuestionBank
	students  []uint
}

func buildFixture(t *testing.T, db *gorm.DB, specs []questionSpec, studentCount int) fixture {
	t.Helper()

	f := fixture{
		group: examModels.CourseGroup{Name: "Algorithms 101", InstructorID: 1},
	}
	require.NoError(t, db.Create(&f.group).Error)

	for i := 0; i < studentCount; i++ {
		studentID := uint(100 + i)
		enrollment := examModels.Enrollment{UserID: studentID, CourseGroupID: f.group.ID}
		require.NoError(t, db.Create(&enrollment).Error)
		f.students = append(f.students, studentID)
	}

	f.template = examModels.ExamTemplate{
		Name:          "Midterm",
		OwnerID:       1,
		CourseGroupID: f.group.ID,
		QuestionCount: len(specs),
	}
	require.NoError(t, db.Create(&f.template).Error)

	for i, spec := range specs {
		bankItem := examModels.QuestionBank{
			Type:          spec.qType,
			Title:         "Question",
			CorrectOption: spec.correct,
			OwnerID:       1,
		}
		require.NoError(t, db.Create(&bankItem).Error)
		f.bankItems = append(f.bankItems, bankItem)

		binding := examModels.ExamQuestion{
			QuestionBankID: bankItem.ID,
			ExamTemplateID: f.template.ID,
			Points:         specs[i].points,
		}
		require.NoError(t, db.Create(&binding).Error)
		f.questions = append(f.questions, binding)
	}

	return f
}

func countAnswers(t *testing.T, db *gorm.DB, questionID, studentID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&examModels.StudentAnswer{}).
		Where("exam_question_id = ? AND student_id = ?", questionID, studentID).
		Count(&n).Error)
	return n
}

func countTemplateAnswers(t *testing.T, db *gorm.DB, templateID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&examModels.StudentAnswer{}).
		Joins("JOIN exam_questions ON exam_questions.id = student_answers.exam_question_id").
		Where("exam_questions.exam_template_id = ?", templateID).
		Count(&n).Error)
	return n
}
