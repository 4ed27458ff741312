package examValidator

import (
	"elms/middleware"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// QuestionBindingRequest is one entry of a template's bound question set.
type QuestionBindingRequest struct {
	QuestionID uint `json:"question_id" validate:"required"`
	Points     int  `json:"points" validate:"gte=0"`
}

// TemplateRequest is the create-template body.
type TemplateRequest struct {
	Name            string                   `json:"name" validate:"required,min=3"`
	DurationMinutes int                      `json:"duration_minutes" validate:"gte=0"`
	OpenAt          *time.Time               `json:"open_at"`
	CloseAt         *time.Time               `json:"close_at"`
	CourseGroupID   uint                     `json:"course_group_id" validate:"required"`
	Questions       []QuestionBindingRequest `json:"questions" validate:"dive"`
}

// TemplateUpdateRequest is the partial update body. Nil fields stay
// untouched; a non-nil Questions replaces the whole bound set.
type TemplateUpdateRequest struct {
	Name            *string                  `json:"name"`
	DurationMinutes *int                     `json:"duration_minutes"`
	OpenAt          *time.Time               `json:"open_at"`
	CloseAt         *time.Time               `json:"close_at"`
	Questions       []QuestionBindingRequest `json:"questions"`
}

func CreateTemplate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TemplateRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
			}
		}

		// Close must come after open when both are set
		if reqData.OpenAt != nil && reqData.CloseAt != nil && !reqData.CloseAt.After(*reqData.OpenAt) {
			errors["close_at"] = "Close time must be after open time!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTemplate", reqData)
		return c.Next()
	}
}

func UpdateTemplate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TemplateUpdateRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Name != nil && len(*reqData.Name) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}
		if reqData.DurationMinutes != nil && *reqData.DurationMinutes < 0 {
			errors["duration_minutes"] = "Duration must not be negative!"
		}
		if reqData.OpenAt != nil && reqData.CloseAt != nil && !reqData.CloseAt.After(*reqData.OpenAt) {
			errors["close_at"] = "Close time must be after open time!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTemplateUpdate", reqData)
		return c.Next()
	}
}
