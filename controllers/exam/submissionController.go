package examController

import (
	"elms/database"
	"elms/middleware"
	examService "elms/services/exam"
	examValidator "elms/validators/exam"

	"github.com/gofiber/fiber/v2"
)

// SubmitExam writes a student's complete answer set for a template. Exams are
// submit-once; any prior answer rejects the whole submission.
func SubmitExam(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	templateID, err := c.ParamsInt("id")
	if err != nil || templateID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template id!", nil)
	}

	reqData, ok := c.Locals("validatedSubmission").(*examValidator.SubmissionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	service := examService.NewService(database.Database.Db)
	result, err := service.Submit(uint(templateID), userID, reqData.Answers)
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Exam submitted!", result)
}
