package controllers

import (
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollInCourse self-enrolls the user in a free published course. Paid
// courses enroll through the payment flow instead.
func EnrollInCourse(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	// Check if course exists and is active
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "ACTIVE").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	if course.Price > 0 {
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "This course requires payment!", nil)
	}

	// Check if user is already enrolled
	var existingEnrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	var totalLessons int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Count(&totalLessons)

	// Create enrollment
	enrollment := courseModels.Enrollment{
		UserID:       userID,
		CourseID:     uint(courseID),
		Status:       "ENROLLED",
		Source:       "SELF",
		TotalLessons: int(totalLessons),
	}

	// Save to database with transaction
	tx := database.Database.Db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetCourseProgress returns per-lesson completion for the user's enrollment
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var lessons []courseModels.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc").Find(&lessons)

	completed := make(map[uint]bool)
	var completions []courseModels.LessonCompletion
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&completions)
	for _, completion := range completions {
		completed[completion.LessonID] = true
	}

	type LessonProgress struct {
		LessonID    uint   `json:"lesson_id"`
		Title       string `json:"title"`
		LessonType  string `json:"lesson_type"`
		OrderIndex  int    `json:"order_index"`
		IsCompleted bool   `json:"is_completed"`
	}

	progress := make([]LessonProgress, len(lessons))
	for i, lesson := range lessons {
		progress[i] = LessonProgress{
			LessonID:    lesson.ID,
			Title:       lesson.Title,
			LessonType:  lesson.LessonType,
			OrderIndex:  lesson.OrderIndex,
			IsCompleted: completed[lesson.ID],
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"lessons":    progress,
	})
}

// MarkLessonComplete marks a content lesson complete. QUIZ lessons are
// completed only by a perfect quiz score, never directly.
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if lesson.LessonType == "QUIZ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz lessons are completed by a perfect quiz score!", nil)
	}

	var existing courseModels.LessonCompletion
	if err := database.Database.Db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson already completed!", existing)
	}

	completion := courseModels.LessonCompletion{
		UserID:   userID,
		CourseID: uint(courseID),
		LessonID: uint(lessonID),
		Status:   "COMPLETED",
	}
	if err := database.Database.Db.Create(&completion).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson complete!", nil)
	}

	updateEnrollmentProgress(database.Database.Db, userID, uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked complete!", completion)
}

// updateEnrollmentProgress recomputes an enrollment's progress from lesson
// completions and flips it to COMPLETED when everything is done
func updateEnrollmentProgress(db *gorm.DB, userID, courseID uint) {
	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return
	}

	var totalLessons int64
	db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Count(&totalLessons)

	var completedLessons int64
	db.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Count(&completedLessons)

	enrollment.TotalLessons = int(totalLessons)
	enrollment.CompletedLessons = int(completedLessons)

	if totalLessons > 0 {
		enrollment.Progress = 100 * float64(completedLessons) / float64(totalLessons)
	} else {
		enrollment.Progress = 0
	}

	if totalLessons > 0 && completedLessons >= totalLessons {
		enrollment.Status = "COMPLETED"
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	} else if completedLessons > 0 {
		enrollment.Status = "IN_PROGRESS"
	}

	db.Save(&enrollment)
}
