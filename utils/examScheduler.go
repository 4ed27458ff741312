package utils

import (
	"elms/config"
	"elms/database"
	"elms/models"
	examModels "elms/models/exam"
	examService "elms/services/exam"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[EXAM-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// runSweep executes one auto-close sweep and notifies students of every
// template the sweep closed
func runSweep() {
	service := examService.NewService(database.Database.Db)
	closed := service.SweepExpired()

	for _, templateID := range closed {
		notifyTemplateClosed(templateID)
	}
}

// notifyTemplateClosed emails the enrolled students of a closed exam. Best
// effort: a failed mail never affects the already-committed close.
func notifyTemplateClosed(templateID uint) {
	db := database.Database.Db

	var template examModels.ExamTemplate
	if err := db.First(&template, templateID).Error; err != nil {
		logScheduler("Error fetching closed template for notification: " + err.Error())
		return
	}

	var enrollments []examModels.Enrollment
	if err := db.Where("course_group_id = ? AND is_deleted = false",
		template.CourseGroupID).Find(&enrollments).Error; err != nil {
		logScheduler("Error fetching enrollments for notification: " + err.Error())
		return
	}

	for _, e := range enrollments {
		var user models.User
		if err := db.Select("name, email").First(&user, e.UserID).Error; err != nil || user.Email == "" {
			continue
		}
		go SendExamClosedEmail(user.Email, user.Name, template.Name)
	}

	logScheduler(fmt.Sprintf("Sent close notifications for template %d to %d students", templateID, len(enrollments)))
}

// InitializeExamScheduler starts the recurring auto-close sweep. The interval
// comes from EXAM_SWEEP_SECONDS (default 30s).
func InitializeExamScheduler() *cron.Cron {
	logScheduler("Initializing exam auto-close scheduler...")

	loc, err := time.LoadLocation(config.AppConfig.TimeZone)
	if err != nil {
		logScheduler("Unknown TIME_ZONE, falling back to UTC: " + err.Error())
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))

	spec := fmt.Sprintf("@every %ds", config.AppConfig.ExamSweepSeconds)
	c.AddFunc(spec, func() {
		runSweep()
	})

	c.Start()
	logScheduler(fmt.Sprintf("Exam auto-close scheduler started - runs every %d seconds", config.AppConfig.ExamSweepSeconds))
	return c
}
