package examValidator

import (
	"elms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SubmissionRequest maps question bank ids to submitted answer texts. Empty
// strings are valid answers ("no answer").
type SubmissionRequest struct {
	Answers map[uint]string `json:"answers"`
}

// GradeRequest is the manual grading body.
type GradeRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

func SubmitExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmissionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

func GradeAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GradeRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Score < 0 {
			errors["score"] = "Score must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
