package examController

import (
	"elms/database"
	"elms/middleware"
	examModels "elms/models/exam"
	examValidator "elms/validators/exam"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// CreateQuestion adds a question bank item owned by the caller
func CreateQuestion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*examValidator.QuestionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	// Options stored as a JSON string column
	optionsJSON, _ := json.Marshal(reqData.Options)

	question := examModels.QuestionBank{
		Type:          reqData.Type,
		Title:         reqData.Title,
		Body:          reqData.Body,
		Options:       string(optionsJSON),
		CorrectOption: reqData.CorrectOption,
		OwnerID:       userID,
	}

	if err := database.Database.Db.Create(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created!", question)
}

// ListQuestions returns the caller's question bank
func ListQuestions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var questions []examModels.QuestionBank
	if err := database.Database.Db.
		Where("owner_id = ? AND is_deleted = false", userID).
		Order("id desc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched!", questions)
}

// GetQuestion returns one question bank item
func GetQuestion(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("id")
	if err != nil || questionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question id!", nil)
	}

	var question examModels.QuestionBank
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = false", questionID).
		First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question fetched!", question)
}
