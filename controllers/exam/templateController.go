package examController

import (
	"elms/database"
	"elms/middleware"
	examService "elms/services/exam"
	examValidator "elms/validators/exam"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps engine sentinel errors onto the response envelope.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, examService.ErrTemplateNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam template not found!", nil)
	case errors.Is(err, examService.ErrCourseGroupNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course group not found!", nil)
	case errors.Is(err, examService.ErrQuestionNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	case errors.Is(err, examService.ErrAnswerNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Answer not found!", nil)
	case errors.Is(err, examService.ErrTemplateClosed):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Exam template is closed!", nil)
	case errors.Is(err, examService.ErrExamInProgress):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Exam is in progress!", nil)
	case errors.Is(err, examService.ErrDuplicateSubmission):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Exam already submitted!", nil)
	case errors.Is(err, examService.ErrInvalidGradingTarget):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Auto-graded answers cannot be graded manually!", nil)
	case errors.Is(err, examService.ErrAggregateExists):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Score aggregate already exists!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong, please try again later!", nil)
	}
}

func toBindings(reqs []examValidator.QuestionBindingRequest) []examService.QuestionBinding {
	bindings := make([]examService.QuestionBinding, len(reqs))
	for i, r := range reqs {
		bindings[i] = examService.QuestionBinding{QuestionBankID: r.QuestionID, Points: r.Points}
	}
	return bindings
}

// CreateTemplate assembles a new exam for a course group owned by the caller
func CreateTemplate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedTemplate").(*examValidator.TemplateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	service := examService.NewService(database.Database.Db)
	template, err := service.CreateTemplate(examService.CreateTemplateInput{
		Name:            reqData.Name,
		DurationMinutes: reqData.DurationMinutes,
		OpenAt:          reqData.OpenAt,
		CloseAt:         reqData.CloseAt,
		OwnerID:         userID,
		CourseGroupID:   reqData.CourseGroupID,
		Questions:       toBindings(reqData.Questions),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Exam template created!", template)
}

// UpdateTemplate mutates a template the caller owns; rejected mid-window
func UpdateTemplate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	templateID, err := c.ParamsInt("id")
	if err != nil || templateID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template id!", nil)
	}

	reqData, ok := c.Locals("validatedTemplateUpdate").(*examValidator.TemplateUpdateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	service := examService.NewService(database.Database.Db)
	if err := requireOwnership(service, uint(templateID), userID); err != nil {
		return respondOwnershipError(c, err)
	}

	input := examService.UpdateTemplateInput{
		Name:            reqData.Name,
		DurationMinutes: reqData.DurationMinutes,
		OpenAt:          reqData.OpenAt,
		CloseAt:         reqData.CloseAt,
	}
	if reqData.Questions != nil {
		input.Questions = toBindings(reqData.Questions)
	}

	template, err := service.UpdateTemplate(uint(templateID), input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam template updated!", template)
}

// CloseTemplate is the explicit instructor close
func CloseTemplate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	templateID, err := c.ParamsInt("id")
	if err != nil || templateID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template id!", nil)
	}

	service := examService.NewService(database.Database.Db)
	if err := requireOwnership(service, uint(templateID), userID); err != nil {
		return respondOwnershipError(c, err)
	}

	template, err := service.CloseTemplate(uint(templateID))
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam template closed!", template)
}

// GetTemplate returns a template with bindings and course display fields
func GetTemplate(c *fiber.Ctx) error {
	templateID, err := c.ParamsInt("id")
	if err != nil || templateID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template id!", nil)
	}

	service := examService.NewService(database.Database.Db)
	detail, err := service.GetTemplate(uint(templateID))
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam template fetched!", detail)
}

// ListTemplates returns all templates of one course group
func ListTemplates(c *fiber.Ctx) error {
	groupID, err := c.ParamsInt("group_id")
	if err != nil || groupID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course group id!", nil)
	}

	service := examService.NewService(database.Database.Db)
	templates, err := service.ListTemplates(uint(groupID))
	if err != nil {
		return respondServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam templates fetched!", templates)
}

var errNotOwner = errors.New("not template owner")

// requireOwnership verifies the caller owns the template before a mutation.
// The identity itself was established by the auth layer; only the ownership
// relation is checked here.
func requireOwnership(service *examService.Service, templateID, userID uint) error {
	detail, err := service.GetTemplate(templateID)
	if err != nil {
		return err
	}
	if detail.Template.OwnerID != userID {
		return errNotOwner
	}
	return nil
}

func respondOwnershipError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errNotOwner) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this exam template!", nil)
	}
	return respondServiceError(c, err)
}
