package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"learnhub/cache"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/scoring"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// optionView hides correctness from learners
type optionView struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
}

type questionView struct {
	ID           uint         `json:"id"`
	QuestionText string       `json:"question_text"`
	Options      []optionView `json:"options"`
}

// loadQuizQuestions fetches a quiz's live questions with options in display order
func loadQuizQuestions(db *gorm.DB, quizID uint) ([]courseModels.Question, error) {
	var questions []courseModels.Question
	err := db.Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index asc")
		}).
		Order("order_index asc").Find(&questions).Error
	return questions, err
}

// GetQuizForLearner returns a quiz and its questions stripped of correctness.
// The enrolled learner takes the quiz against exactly this snapshot.
func GetQuizForLearner(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	quizID := c.Locals("quizID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userId, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", quizID, courseID, false).
		First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	questions, err := loadQuizQuestions(database.Database.Db, quiz.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		qv := questionView{ID: q.ID, QuestionText: q.QuestionText}
		for _, opt := range q.Options {
			qv.Options = append(qv.Options, optionView{ID: opt.ID, OptionText: opt.OptionText})
		}
		views = append(views, qv)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"id":              quiz.ID,
		"title":           quiz.Title,
		"lesson_id":       quiz.LessonID,
		"total_questions": len(views),
		"questions":       views,
	})
}

// SubmitQuizAttempt grades an answer set, records the attempt and credits
// first-perfect points. Two racing submissions collide on the attempt
// sequence unique index; the loser is retried once with a fresh number.
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	quizID := c.Locals("quizID").(int)

	answers, ok := c.Locals("validatedAnswers").(map[uint]uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	startedAt := time.Now()
	if ts, ok := c.Locals("attemptStartedAt").(int64); ok && ts > 0 {
		startedAt = time.Unix(ts, 0)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userId, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", quizID, courseID, false).
		First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	questions, err := loadQuizQuestions(database.Database.Db, quiz.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	result, err := scoring.Grade(questions, answers)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrNoQuestions):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Quiz has no questions!", nil)
		case errors.Is(err, scoring.ErrUnknownQuestion), errors.Is(err, scoring.ErrUnknownOption):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade attempt!", nil)
		}
	}

	answersJSON, err := json.Marshal(result.Results)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
	}

	schedule := scoring.ScheduleFor(&quiz)
	completedAt := time.Now()

	var attempt courseModels.Attempt
	var firstPerfect bool

	recordAttempt := func() error {
		return database.Database.Db.Transaction(func(tx *gorm.DB) error {
			var lastNumber int
			if err := tx.Model(&courseModels.Attempt{}).
				Where("quiz_id = ? AND user_id = ?", quiz.ID, userId).
				Select("COALESCE(MAX(attempt_number), 0)").Scan(&lastNumber).Error; err != nil {
				return err
			}
			attemptNumber := lastNumber + 1

			var perfectBefore int64
			if err := tx.Model(&courseModels.Attempt{}).
				Where("quiz_id = ? AND user_id = ? AND score = ?", quiz.ID, userId, 100).
				Count(&perfectBefore).Error; err != nil {
				return err
			}

			points, isFirst := scoring.Award(schedule, attemptNumber, result.ScorePercent, perfectBefore > 0)
			firstPerfect = isFirst

			attempt = courseModels.Attempt{
				QuizID:        quiz.ID,
				UserID:        userId,
				AttemptNumber: attemptNumber,
				Score:         result.ScorePercent,
				PointsEarned:  points,
				Answers:       answersJSON,
				StartedAt:     startedAt,
				CompletedAt:   completedAt,
			}
			if err := tx.Create(&attempt).Error; err != nil {
				return err
			}

			if points > 0 {
				var ledger models.PointsLedger
				err := tx.Where("user_id = ?", userId).First(&ledger).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ledger = models.PointsLedger{UserID: userId, TotalPoints: points}
					if err := tx.Create(&ledger).Error; err != nil {
						return err
					}
				} else if err != nil {
					return err
				} else {
					if err := tx.Model(&ledger).Update("total_points", gorm.Expr("total_points + ?", points)).Error; err != nil {
						return err
					}
				}
			}

			return nil
		})
	}

	if err := recordAttempt(); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
		}
		// Lost the race for this attempt number; take the next one
		if err := recordAttempt(); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record attempt!", nil)
		}
	}

	if attempt.PointsEarned > 0 {
		utils.InvalidateLeaderboard(cache.Client)
	}

	// A perfect score on a lesson-backed quiz completes that lesson
	if result.ScorePercent == 100 && quiz.LessonID != nil {
		markQuizLessonComplete(userId, uint(courseID), *quiz.LessonID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt recorded successfully!", fiber.Map{
		"attempt_id":      attempt.ID,
		"attempt_number":  attempt.AttemptNumber,
		"score":           result.ScorePercent,
		"correct_answers": result.CorrectCount,
		"total_questions": result.TotalQuestions,
		"points_earned":   attempt.PointsEarned,
		"first_perfect":   firstPerfect,
		"results":         result.Results,
	})
}

// markQuizLessonComplete records a quiz-lesson completion and refreshes the
// enrollment's progress. Idempotent across repeat perfect scores.
func markQuizLessonComplete(userID, courseID, lessonID uint) {
	db := database.Database.Db

	var existing courseModels.LessonCompletion
	err := db.Where("user_id = ? AND course_id = ? AND lesson_id = ? AND is_deleted = ?", userID, courseID, lessonID, false).
		First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}

	completion := courseModels.LessonCompletion{
		UserID:   userID,
		CourseID: courseID,
		LessonID: lessonID,
		Status:   "COMPLETED",
	}
	if err := db.Create(&completion).Error; err != nil {
		return
	}

	updateEnrollmentProgress(db, userID, courseID)
}

// GetAttemptHistory returns the learner's attempts for a quiz, newest first,
// with a rolled-up summary
func GetAttemptHistory(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", quizID, courseID, false).
		First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var attempts []courseModels.Attempt
	if err := database.Database.Db.Where("quiz_id = ? AND user_id = ? AND is_deleted = ?", quizID, userId, false).
		Order("attempt_number desc").Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	var bestScore, totalPoints int
	hasPerfect := false
	for _, a := range attempts {
		if a.Score > bestScore {
			bestScore = a.Score
		}
		totalPoints += a.PointsEarned
		if a.Score == 100 {
			hasPerfect = true
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"summary": fiber.Map{
			"total_attempts":      len(attempts),
			"best_score":          bestScore,
			"total_points_earned": totalPoints,
			"has_perfect_score":   hasPerfect,
		},
		"attempts": attempts,
	})
}
