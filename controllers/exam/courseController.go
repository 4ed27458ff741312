package examController

import (
	"elms/database"
	"elms/middleware"
	"elms/models"
	examModels "elms/models/exam"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateCourseGroup creates the course binding exams attach to
func CreateCourseGroup(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if strings.TrimSpace(reqData.Name) == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{"name": "Name is required!"})
	}

	group := examModels.CourseGroup{
		Name:         reqData.Name,
		Description:  reqData.Description,
		InstructorID: userID,
	}
	if err := database.Database.Db.Create(&group).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course group!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course group created!", group)
}

// EnrollStudent adds a student to a course group
func EnrollStudent(c *fiber.Ctx) error {
	groupID, err := c.ParamsInt("group_id")
	if err != nil || groupID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course group id!", nil)
	}

	reqData := new(struct {
		UserID uint `json:"user_id"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.UserID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var group examModels.CourseGroup
	if err := db.Where("id = ? AND is_deleted = false", groupID).First(&group).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course group not found!", nil)
	}

	var student models.User
	if err := db.Where("id = ? AND is_deleted = false", reqData.UserID).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var existing examModels.Enrollment
	if err := db.Where("user_id = ? AND course_group_id = ? AND is_deleted = false",
		reqData.UserID, groupID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled!", nil)
	}

	enrollment := examModels.Enrollment{
		UserID:        reqData.UserID,
		CourseGroupID: uint(groupID),
	}
	if err := db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User enrolled!", enrollment)
}

// ListEnrollments returns the students of a course group
func ListEnrollments(c *fiber.Ctx) error {
	groupID, err := c.ParamsInt("group_id")
	if err != nil || groupID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course group id!", nil)
	}

	var enrollments []examModels.Enrollment
	if err := database.Database.Db.
		Where("course_group_id = ? AND is_deleted = false", groupID).
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched!", enrollments)
}
