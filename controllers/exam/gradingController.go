package examController

import (
	"elms/database"
	"elms/middleware"
	examService "elms/services/exam"
	examValidator "elms/validators/exam"

	"github.com/gofiber/fiber/v2"
)

// GradeAnswer scores a manually-graded answer
func GradeAnswer(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	answerID, err := c.ParamsInt("answer_id")
	if err != nil || answerID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid answer id!", nil)
	}

	reqData, ok := c.Locals("validatedGrade").(*examValidator.GradeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	service := examService.NewService(database.Database.Db)
	answer, err := service.GradeAnswer(uint(answerID), reqData.Score, reqData.Comment)
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer graded!", answer)
}

// ListUngraded returns the answers of a template awaiting manual grading
func ListUngraded(c *fiber.Ctx) error {
	templateID, err := c.ParamsInt("id")
	if err != nil || templateID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template id!", nil)
	}

	service := examService.NewService(database.Database.Db)
	answers, err := service.ListUngraded(uint(templateID))
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ungraded answers fetched!", answers)
}

// FinalizeScore creates the per-student score aggregate once the student's
// per-question scores are wanted as a total
func FinalizeScore(c *fiber.Ctx) error {
	templateID, err := c.ParamsInt("id")
	if err != nil || templateID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template id!", nil)
	}

	studentID, err := c.ParamsInt("student_id")
	if err != nil || studentID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid student id!", nil)
	}

	service := examService.NewService(database.Database.Db)
	aggregate, err := service.FinalizeScore(uint(templateID), uint(studentID))
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Score finalized!", aggregate)
}

// GetStatistics derives participation, grading and average-score figures for
// a template on demand
func GetStatistics(c *fiber.Ctx) error {
	templateID, err := c.ParamsInt("id")
	if err != nil || templateID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template id!", nil)
	}

	service := examService.NewService(database.Database.Db)
	stats, err := service.Statistics(uint(templateID))
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Statistics fetched!", stats)
}
