package controllers

import (
	"math"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateReview records an enrolled learner's review and refreshes the
// course's aggregate rating
func CreateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	reqData, ok := c.Locals("validatedReview").(*struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var review models.Review
	err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&review).Error
	if err == nil {
		// One review per learner per course; resubmission updates it
		review.Rating = reqData.Rating
		review.Comment = reqData.Comment
		if err := database.Database.Db.Save(&review).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
		}
	} else {
		review = models.Review{
			UserID:   userID,
			CourseID: uint(courseID),
			Rating:   reqData.Rating,
			Comment:  reqData.Comment,
		}
		if err := database.Database.Db.Create(&review).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create review!", nil)
		}
	}

	refreshCourseRating(uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", review)
}

// ListReviews lists reviews for a course
func ListReviews(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var reviews []models.Review
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at desc").Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	type ReviewWithUser struct {
		models.Review
		UserName string `json:"user_name"`
	}

	result := make([]ReviewWithUser, len(reviews))
	for i, review := range reviews {
		var reviewer models.User
		database.Database.Db.Where("id = ?", review.UserID).First(&reviewer)
		result[i] = ReviewWithUser{Review: review, UserName: reviewer.Name}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", result)
}

// refreshCourseRating recomputes a course's average rating
func refreshCourseRating(courseID uint) {
	var avg float64
	database.Database.Db.Model(&models.Review{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Select("COALESCE(AVG(rating), 0)").Scan(&avg)

	database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ?", courseID).
		Update("rating", uint(math.Round(avg)))
}
