package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// isCourseManager reports whether the user may author course content
func isCourseManager(user *models.User) bool {
	return user.Role == "ADMIN" || user.Role == "INSTRUCTOR"
}

// AdminCreateQuiz creates a quiz with its points schedule under a course
func AdminCreateQuiz(c *fiber.Ctx) error {
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

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*courseModels.QuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz := courseModels.Quiz{
		CourseID: uint(courseID),
		LessonID: reqData.LessonID,
		Title:    reqData.Title,
	}
	if reqData.FirstTryPoints != nil {
		quiz.FirstTryPoints = *reqData.FirstTryPoints
	}
	if reqData.SecondTryPoints != nil {
		quiz.SecondTryPoints = *reqData.SecondTryPoints
	}
	if reqData.ThirdTryPoints != nil {
		quiz.ThirdTryPoints = *reqData.ThirdTryPoints
	}
	if reqData.FourthPlusPoints != nil {
		quiz.FourthPlusPoints = *reqData.FourthPlusPoints
	}

	if reqData.LessonID != nil {
		var lesson courseModels.Lesson
		if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", *reqData.LessonID, courseID, false).First(&lesson).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		}
		if lesson.LessonType != "QUIZ" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson is not a QUIZ lesson!", nil)
		}
	}

	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// AdminUpdateQuiz applies a partial update to a quiz
func AdminUpdateQuiz(c *fiber.Ctx) error {
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

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuizUpdate").(*courseModels.QuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		quiz.Title = reqData.Title
	}
	if reqData.LessonID != nil {
		var lesson courseModels.Lesson
		if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", *reqData.LessonID, quiz.CourseID, false).First(&lesson).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		}
		if lesson.LessonType != "QUIZ" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson is not a QUIZ lesson!", nil)
		}
		quiz.LessonID = reqData.LessonID
	}
	if reqData.FirstTryPoints != nil {
		quiz.FirstTryPoints = *reqData.FirstTryPoints
	}
	if reqData.SecondTryPoints != nil {
		quiz.SecondTryPoints = *reqData.SecondTryPoints
	}
	if reqData.ThirdTryPoints != nil {
		quiz.ThirdTryPoints = *reqData.ThirdTryPoints
	}
	if reqData.FourthPlusPoints != nil {
		quiz.FourthPlusPoints = *reqData.FourthPlusPoints
	}

	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

// AdminDeleteQuiz soft deletes a quiz and cascades to its questions, options
// and attempt history. Already-credited ledger points are untouched.
func AdminDeleteQuiz(c *fiber.Ctx) error {
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

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	tx := database.Database.Db.Begin()

	quiz.IsDeleted = true
	if err := tx.Save(&quiz).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	var questionIDs []uint
	if err := tx.Model(&courseModels.Question{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).Pluck("id", &questionIDs).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	if len(questionIDs) > 0 {
		if err := tx.Model(&courseModels.Question{}).Where("id IN ?", questionIDs).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete questions!", nil)
		}
		if err := tx.Model(&courseModels.Option{}).Where("question_id IN ?", questionIDs).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete options!", nil)
		}
	}

	if err := tx.Model(&courseModels.Attempt{}).Where("quiz_id = ?", quizID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete attempts!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}

// AdminGetQuiz returns the full quiz definition including correctness,
// for the authoring UI only
func AdminGetQuiz(c *fiber.Ctx) error {
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

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []courseModels.Question
	if err := database.Database.Db.Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Preload("Options", "is_deleted = ?", false).
		Order("order_index asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz":      quiz,
		"questions": questions,
	})
}

// AdminListQuizzes lists a course's quizzes
func AdminListQuizzes(c *fiber.Ctx) error {
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

	var quizzes []courseModels.Quiz
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at asc").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
}

// AdminAddQuestion appends a question with its options to a quiz. Question
// order is assigned from creation order and never changes afterwards.
func AdminAddQuestion(c *fiber.Ctx) error {
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

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*courseModels.QuestionInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var maxOrder int
	database.Database.Db.Model(&courseModels.Question{}).
		Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)

	tx := database.Database.Db.Begin()

	question := courseModels.Question{
		QuizID:       uint(quizID),
		QuestionText: reqData.QuestionText,
		OrderIndex:   maxOrder + 1,
	}
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	options := make([]courseModels.Option, len(reqData.Options))
	for i, opt := range reqData.Options {
		options[i] = courseModels.Option{
			QuestionID: question.ID,
			OptionText: opt.OptionText,
			IsCorrect:  opt.IsCorrect,
			OrderIndex: i + 1, // submission order
		}
	}
	if err := tx.Create(&options).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create options!", nil)
	}

	tx.Commit()

	question.Options = options
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully!", question)
}

// AdminUpdateQuestion updates a question's text and replaces its option set
// with the submitted one
func AdminUpdateQuestion(c *fiber.Ctx) error {
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

	questionID := c.Locals("questionID").(int)

	var question courseModels.Question
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuestionUpdate").(*courseModels.QuestionInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	tx := database.Database.Db.Begin()

	question.QuestionText = reqData.QuestionText
	if err := tx.Save(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question!", nil)
	}

	// Replace the full option set: retire the old rows, insert the new ones
	if err := tx.Model(&courseModels.Option{}).Where("question_id = ? AND is_deleted = ?", questionID, false).
		Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update options!", nil)
	}

	options := make([]courseModels.Option, len(reqData.Options))
	for i, opt := range reqData.Options {
		options[i] = courseModels.Option{
			QuestionID: question.ID,
			OptionText: opt.OptionText,
			IsCorrect:  opt.IsCorrect,
			OrderIndex: i + 1,
		}
	}
	if err := tx.Create(&options).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update options!", nil)
	}

	tx.Commit()

	question.Options = options
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", question)
}

// AdminDeleteQuestion soft deletes a question and its options. Past attempts
// keep their recorded answers and scores; grading is never recomputed.
func AdminDeleteQuestion(c *fiber.Ctx) error {
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

	questionID := c.Locals("questionID").(int)

	var question courseModels.Question
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	tx := database.Database.Db.Begin()

	question.IsDeleted = true
	if err := tx.Save(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	if err := tx.Model(&courseModels.Option{}).Where("question_id = ?", questionID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete options!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}
