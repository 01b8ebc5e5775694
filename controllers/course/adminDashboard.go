package controllers

import (
	"time"

	"learnhub/cache"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminGetCourseEnrollments gets all enrolled students for a course
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if !isCourseManager(&user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	courseID := c.Locals("courseID").(int)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", courseID, false)

	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	type EnrollmentWithUser struct {
		courseModels.Enrollment
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
	}

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	// Fetch user details for each enrollment
	result := make([]EnrollmentWithUser, len(enrollments))
	for i, e := range enrollments {
		var enrolledUser models.User
		database.Database.Db.Where("id = ?", e.UserID).First(&enrolledUser)
		result[i] = EnrollmentWithUser{
			Enrollment: e,
			UserName:   enrolledUser.Name,
			UserEmail:  enrolledUser.Email,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminGetCompletedStudents gets students who completed a course
func AdminGetCompletedStudents(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if !isCourseManager(&user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	courseID := c.Locals("courseID").(int)

	type CompletedStudent struct {
		UserID      uint       `json:"user_id"`
		UserName    string     `json:"user_name"`
		UserEmail   string     `json:"user_email"`
		Progress    float64    `json:"progress"`
		CompletedAt *time.Time `json:"completed_at"`
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("course_id = ? AND status = ? AND is_deleted = ?", courseID, "COMPLETED", false).
		Order("completed_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch completed students!", nil)
	}

	result := make([]CompletedStudent, len(enrollments))
	for i, e := range enrollments {
		var enrolledUser models.User
		database.Database.Db.Where("id = ?", e.UserID).First(&enrolledUser)
		result[i] = CompletedStudent{
			UserID:      e.UserID,
			UserName:    enrolledUser.Name,
			UserEmail:   enrolledUser.Email,
			Progress:    e.Progress,
			CompletedAt: e.CompletedAt,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completed students fetched successfully!", fiber.Map{
		"completed_students": result,
		"total":              len(result),
	})
}

// AdminGetStudentProgress gets detailed progress and quiz history for a student
func AdminGetStudentProgress(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if !isCourseManager(&user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	targetUserID := c.Locals("targetUserID").(int)

	// Get target user
	var targetUser models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&targetUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	// Get all enrollments for the user
	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", targetUserID, false).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type CourseProgress struct {
		CourseID         uint       `json:"course_id"`
		CourseName       string     `json:"course_name"`
		Status           string     `json:"status"`
		Progress         float64    `json:"progress"`
		CompletedLessons int        `json:"completed_lessons"`
		TotalLessons     int        `json:"total_lessons"`
		EnrolledAt       time.Time  `json:"enrolled_at"`
		CompletedAt      *time.Time `json:"completed_at"`
	}

	// Get quiz attempt summary
	var attempts []courseModels.Attempt
	database.Database.Db.Where("user_id = ? AND is_deleted = ?", targetUserID, false).Find(&attempts)

	totalAttempts := len(attempts)
	perfectAttempts := 0
	totalPoints := 0
	for _, attempt := range attempts {
		if attempt.Score == 100 {
			perfectAttempts++
		}
		totalPoints += attempt.PointsEarned
	}

	courseProgress := make([]CourseProgress, len(enrollments))
	for i, e := range enrollments {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		courseProgress[i] = CourseProgress{
			CourseID:         e.CourseID,
			CourseName:       course.Title,
			Status:           e.Status,
			Progress:         e.Progress,
			CompletedLessons: e.CompletedLessons,
			TotalLessons:     e.TotalLessons,
			EnrolledAt:       e.CreatedAt,
			CompletedAt:      e.CompletedAt,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", fiber.Map{
		"student": fiber.Map{
			"id":    targetUser.ID,
			"name":  targetUser.Name,
			"email": targetUser.Email,
		},
		"course_progress": courseProgress,
		"quiz_summary": fiber.Map{
			"total_attempts":   totalAttempts,
			"perfect_attempts": perfectAttempts,
			"total_points":     totalPoints,
		},
	})
}

// AdminDashboardStats gets dashboard statistics
func AdminDashboardStats(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	var totalCourses, publishedCourses, totalEnrollments, completedEnrollments int64
	var totalQuizzes, totalAttempts, pendingCertificates int64

	database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ?", false, "COMPLETED").Count(&completedEnrollments)
	database.Database.Db.Model(&courseModels.Quiz{}).Where("is_deleted = ?", false).Count(&totalQuizzes)
	database.Database.Db.Model(&courseModels.Attempt{}).Where("is_deleted = ?", false).Count(&totalAttempts)
	database.Database.Db.Model(&courseModels.CertificateRequest{}).Where("is_deleted = ? AND status = ?", false, "PENDING").Count(&pendingCertificates)

	var totalPointsAwarded int64
	database.Database.Db.Model(&models.PointsLedger{}).
		Where("is_deleted = ?", false).
		Select("COALESCE(SUM(total_points), 0)").Scan(&totalPointsAwarded)

	// Get recent enrollments
	type RecentEnrollment struct {
		UserName   string    `json:"user_name"`
		CourseName string    `json:"course_name"`
		EnrolledAt time.Time `json:"enrolled_at"`
	}

	var recentEnrollments []courseModels.Enrollment
	database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Limit(5).Find(&recentEnrollments)

	recent := make([]RecentEnrollment, len(recentEnrollments))
	for i, e := range recentEnrollments {
		var enrolledUser models.User
		var course courseModels.Course
		database.Database.Db.Where("id = ?", e.UserID).First(&enrolledUser)
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		recent[i] = RecentEnrollment{
			UserName:   enrolledUser.Name,
			CourseName: course.Title,
			EnrolledAt: e.CreatedAt,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"stats": fiber.Map{
			"total_courses":         totalCourses,
			"published_courses":     publishedCourses,
			"total_enrollments":     totalEnrollments,
			"completed_enrollments": completedEnrollments,
			"total_quizzes":         totalQuizzes,
			"total_attempts":        totalAttempts,
			"total_points_awarded":  totalPointsAwarded,
			"pending_certificates":  pendingCertificates,
		},
		"recent_enrollments": recent,
	})
}

// AdminListUsers lists platform users with pagination and optional role filter
func AdminListUsers(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)
	if role := c.Query("role"); role != "" {
		db = db.Where("role = ?", role)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminBlockUser blocks or unblocks a user account. Blocking here is
// indefinite, unlike the temporary lockout after failed logins.
func AdminBlockUser(block bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}

		if user.Role != "ADMIN" {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
		}

		targetUserID := c.Locals("targetUserID").(int)
		if uint(targetUserID) == user.ID {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot block your own account!", nil)
		}

		var target models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&target).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}

		target.IsBlocked = block
		target.BlockedUntil = nil
		target.FailedLoginAttempts = 0
		if err := database.Database.Db.Save(&target).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
		}

		msg := "User unblocked successfully!"
		if block {
			msg = "User blocked successfully!"
		}
		target.Password = ""
		return middleware.JsonResponse(c, fiber.StatusOK, true, msg, target)
	}
}

// GetPointsLeaderboard returns the cached top learners by quiz points
func GetPointsLeaderboard(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	entries, err := utils.GetLeaderboard(database.Database.Db, cache.Client)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboard!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully!", entries)
}
