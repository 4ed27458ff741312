package examValidator

import (
	"elms/middleware"
	examModels "elms/models/exam"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// QuestionRequest is the create-question-bank-item body.
type QuestionRequest struct {
	Type          string   `json:"type" validate:"required,oneof=OBJECTIVE TRUE_FALSE TEXT CODE"`
	Title         string   `json:"title" validate:"required,min=3"`
	Body          string   `json:"body"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
}

func CreateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuestionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
			}
		}

		// Auto-gradable types need a designated correct option to compare
		// submissions against
		if examModels.AutoGradable(reqData.Type) && reqData.CorrectOption == "" {
			errors["correct_option"] = "Correct option is required for auto-gradable questions!"
		}
		if reqData.Type == examModels.QuestionObjective && len(reqData.Options) < 2 {
			errors["options"] = "Objective questions need at least two options!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}
