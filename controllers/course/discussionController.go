package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateDiscussionPost adds a question or reply on a lesson's thread
func CreateDiscussionPost(c *fiber.Ctx) error {
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
		if !isCourseManager(&user) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
		}
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedPost").(*struct {
		Body     string `json:"body"`
		ParentID *uint  `json:"parent_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.ParentID != nil {
		var parent models.DiscussionPost
		if err := database.Database.Db.Where("id = ? AND lesson_id = ? AND is_deleted = ?", *reqData.ParentID, lessonID, false).First(&parent).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Parent post not found!", nil)
		}
	}

	post := models.DiscussionPost{
		LessonID: uint(lessonID),
		CourseID: uint(courseID),
		UserID:   userID,
		ParentID: reqData.ParentID,
		Body:     reqData.Body,
	}

	if err := database.Database.Db.Create(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Post created successfully!", post)
}

// ListDiscussionPosts returns a lesson's discussion thread, oldest first
func ListDiscussionPosts(c *fiber.Ctx) error {
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

	var posts []models.DiscussionPost
	if err := database.Database.Db.Where("course_id = ? AND lesson_id = ? AND is_deleted = ?", courseID, lessonID, false).
		Order("created_at asc").Find(&posts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch posts!", nil)
	}

	type PostWithUser struct {
		models.DiscussionPost
		UserName string `json:"user_name"`
	}

	result := make([]PostWithUser, len(posts))
	for i, post := range posts {
		var author models.User
		database.Database.Db.Where("id = ?", post.UserID).First(&author)
		result[i] = PostWithUser{DiscussionPost: post, UserName: author.Name}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Posts fetched successfully!", result)
}
