package examRoutes

import (
	examController "elms/controllers/exam"
	"elms/middleware"
	"elms/models"
	examValidator "elms/validators/exam"

	"github.com/gofiber/fiber/v2"
)

// SetupExamRoutes sets up all exam, question bank and course group routes
func SetupExamRoutes(app *fiber.App) {
	instructor := middleware.RequireRole(models.RoleInstructor)

	// Question bank (instructor authoring)
	questionGroup := app.Group("/question")
	questionGroup.Post("/", middleware.JWTMiddleware, instructor, examValidator.CreateQuestion(), examController.CreateQuestion)
	questionGroup.Get("/list", middleware.JWTMiddleware, instructor, examController.ListQuestions)
	questionGroup.Get("/:id", middleware.JWTMiddleware, instructor, examController.GetQuestion)

	// Course groups and enrollment (collaborator surface)
	groupGroup := app.Group("/group")
	groupGroup.Post("/", middleware.JWTMiddleware, instructor, examController.CreateCourseGroup)
	groupGroup.Post("/:group_id/enroll", middleware.JWTMiddleware, instructor, examController.EnrollStudent)
	groupGroup.Get("/:group_id/enrollments", middleware.JWTMiddleware, instructor, examController.ListEnrollments)
	groupGroup.Get("/:group_id/exams", middleware.JWTMiddleware, examController.ListTemplates)

	// Exam templates
	examGroup := app.Group("/exam")
	examGroup.Post("/", middleware.JWTMiddleware, instructor, examValidator.CreateTemplate(), examController.CreateTemplate)
	examGroup.Put("/:id", middleware.JWTMiddleware, instructor, examValidator.UpdateTemplate(), examController.UpdateTemplate)
	examGroup.Post("/:id/close", middleware.JWTMiddleware, instructor, examController.CloseTemplate)
	examGroup.Get("/:id", middleware.JWTMiddleware, examController.GetTemplate)

	// Submission (student)
	examGroup.Post("/:id/submit", middleware.JWTMiddleware, examValidator.SubmitExam(), examController.SubmitExam)

	// Manual grading and scores (instructor)
	examGroup.Get("/:id/ungraded", middleware.JWTMiddleware, instructor, examController.ListUngraded)
	examGroup.Post("/answer/:answer_id/grade", middleware.JWTMiddleware, instructor, examValidator.GradeAnswer(), examController.GradeAnswer)
	examGroup.Post("/:id/student/:student_id/finalize", middleware.JWTMiddleware, instructor, examController.FinalizeScore)

	// Statistics
	examGroup.Get("/:id/statistics", middleware.JWTMiddleware, instructor, examController.GetStatistics)
}
