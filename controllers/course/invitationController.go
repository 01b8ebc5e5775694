package controllers

import (
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
)

const invitationTTL = 7 * 24 * time.Hour

// InviteToCourse sends a tokenized enrollment invitation to an email address
func InviteToCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if !isCourseManager(&user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	courseID := c.Locals("courseID").(int)
	email := c.Locals("inviteEmail").(string)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// An already-enrolled user needs no invitation
	var invitee models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", email, false).First(&invitee).Error; err == nil {
		var enrollment courseModels.Enrollment
		if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", invitee.ID, courseID, false).First(&enrollment).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		}
	}

	var pending models.CourseInvitation
	if err := database.Database.Db.Where("course_id = ? AND email = ? AND status = ? AND is_deleted = ?", courseID, email, "PENDING", false).First(&pending).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Invitation already pending for this email!", nil)
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create invitation!", nil)
	}

	invitation := models.CourseInvitation{
		CourseID:  uint(courseID),
		Email:     email,
		Token:     token,
		InvitedBy: user.ID,
		Status:    "PENDING",
		ExpiresAt: time.Now().Add(invitationTTL),
	}

	if err := database.Database.Db.Create(&invitation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create invitation!", nil)
	}

	utils.SendCourseInvitationEmail(email, course.Title, token)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Invitation sent successfully!", fiber.Map{
		"invitation_id": invitation.ID,
		"email":         invitation.Email,
		"expires_at":    invitation.ExpiresAt,
	})
}

// AcceptInvitation redeems an invitation token and enrolls the user
func AcceptInvitation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	token := c.Locals("inviteToken").(string)

	var invitation models.CourseInvitation
	if err := database.Database.Db.Where("token = ? AND is_deleted = ?", token, false).First(&invitation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invitation not found!", nil)
	}

	if invitation.Status != "PENDING" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Invitation is no longer valid!", nil)
	}

	if time.Now().After(invitation.ExpiresAt) {
		invitation.Status = "EXPIRED"
		database.Database.Db.Save(&invitation)
		return middleware.JsonResponse(c, fiber.StatusGone, false, "Invitation has expired!", nil)
	}

	if user.Email != invitation.Email {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Invitation was sent to a different email!", nil)
	}

	var existing courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, invitation.CourseID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	var totalLessons int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", invitation.CourseID, false, true).Count(&totalLessons)

	enrollment := courseModels.Enrollment{
		UserID:       userID,
		CourseID:     invitation.CourseID,
		Status:       "ENROLLED",
		Source:       "INVITE",
		TotalLessons: int(totalLessons),
	}

	tx := database.Database.Db.Begin()

	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	now := time.Now()
	invitation.Status = "ACCEPTED"
	invitation.AcceptedAt = &now
	if err := tx.Save(&invitation).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update invitation!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Invitation accepted successfully!", enrollment)
}
