package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"learnhub/cache"
	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/routers/courseRoutes"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	app          *fiber.App
	db           *gorm.DB
	adminToken   string
	studentToken string
	student      models.User
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	mr := miniredis.RunT(t)
	cache.Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	database.Database.Db = db

	admin := models.User{Name: "Admin", Email: "admin@test.local", Password: "x", Role: "ADMIN", IsEmailVerified: true}
	require.NoError(t, db.Create(&admin).Error)
	student := models.User{Name: "Student", Email: "student@test.local", Password: "x", Role: "STUDENT", IsEmailVerified: true}
	require.NoError(t, db.Create(&student).Error)

	adminToken, err := middleware.GenerateJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)
	studentToken, err := middleware.GenerateJWT(student.ID, student.Name, student.Role, student.Email)
	require.NoError(t, err)

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)

	return &testEnv{
		app:          app,
		db:           db,
		adminToken:   adminToken,
		studentToken: studentToken,
		student:      student,
	}
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded apiResponse
	require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	return resp.StatusCode, decoded
}

func (e *testEnv) createPublishedCourse(t *testing.T) courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:       "Go Fundamentals",
		Description: "Learn the basics",
		Author:      "Jane Doe",
		Duration:    8,
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, e.db.Create(&course).Error)
	return course
}

func (e *testEnv) createQuiz(t *testing.T, courseID uint, first, second, third, fourth int) courseModels.Quiz {
	t.Helper()

	quiz := courseModels.Quiz{
		CourseID:         courseID,
		Title:            "Checkpoint Quiz",
		FirstTryPoints:   first,
		SecondTryPoints:  second,
		ThirdTryPoints:   third,
		FourthPlusPoints: fourth,
	}
	require.NoError(t, e.db.Create(&quiz).Error)
	return quiz
}

func (e *testEnv) addQuestion(t *testing.T, quizID uint, text string, correctIdx int, optionTexts ...string) courseModels.Question {
	t.Helper()

	var maxOrder int
	e.db.Model(&courseModels.Question{}).Where("quiz_id = ?", quizID).
		Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)

	question := courseModels.Question{QuizID: quizID, QuestionText: text, OrderIndex: maxOrder + 1}
	require.NoError(t, e.db.Create(&question).Error)

	for i, optText := range optionTexts {
		opt := courseModels.Option{
			QuestionID: question.ID,
			OptionText: optText,
			IsCorrect:  i == correctIdx,
			OrderIndex: i + 1,
		}
		require.NoError(t, e.db.Create(&opt).Error)
		question.Options = append(question.Options, opt)
	}
	return question
}

func (e *testEnv) enroll(t *testing.T, courseID uint) {
	t.Helper()

	enrollment := courseModels.Enrollment{
		UserID:   e.student.ID,
		CourseID: courseID,
		Status:   "ENROLLED",
		Source:   "SELF",
	}
	require.NoError(t, e.db.Create(&enrollment).Error)
}

// correctAnswers builds a full perfect answer set for the quiz
func (e *testEnv) correctAnswers(t *testing.T, quizID uint) map[uint]uint {
	t.Helper()

	var questions []courseModels.Question
	require.NoError(t, e.db.Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Preload("Options").Find(&questions).Error)

	answers := make(map[uint]uint)
	for _, q := range questions {
		for _, opt := range q.Options {
			if opt.IsCorrect {
				answers[q.ID] = opt.ID
			}
		}
	}
	return answers
}

func submitPath(courseID, quizID uint) string {
	return fmt.Sprintf("/course/%d/quiz/%d/submit", courseID, quizID)
}

func TestQuestionAuthoringRules(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)
	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)

	path := fmt.Sprintf("/admin/quiz/%d/question", quiz.ID)

	cases := []struct {
		name    string
		payload courseModels.QuestionInput
		status  int
	}{
		{
			name: "single option rejected",
			payload: courseModels.QuestionInput{
				QuestionText: "Pick one",
				Options:      []courseModels.OptionInput{{OptionText: "only", IsCorrect: true}},
			},
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "nine options rejected",
			payload: courseModels.QuestionInput{
				QuestionText: "Too many",
				Options: []courseModels.OptionInput{
					{OptionText: "a", IsCorrect: true}, {OptionText: "b"}, {OptionText: "c"},
					{OptionText: "d"}, {OptionText: "e"}, {OptionText: "f"},
					{OptionText: "g"}, {OptionText: "h"}, {OptionText: "i"},
				},
			},
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "no correct option rejected",
			payload: courseModels.QuestionInput{
				QuestionText: "None correct",
				Options:      []courseModels.OptionInput{{OptionText: "a"}, {OptionText: "b"}},
			},
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "two correct options rejected",
			payload: courseModels.QuestionInput{
				QuestionText: "Two correct",
				Options: []courseModels.OptionInput{
					{OptionText: "a", IsCorrect: true},
					{OptionText: "b", IsCorrect: true},
				},
			},
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "valid question accepted",
			payload: courseModels.QuestionInput{
				QuestionText: "What is a goroutine?",
				Options: []courseModels.OptionInput{
					{OptionText: "a lightweight thread", IsCorrect: true},
					{OptionText: "a kernel thread"},
					{OptionText: "a process"},
				},
			},
			status: http.StatusCreated,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := env.request(t, http.MethodPost, path, env.adminToken, tc.payload)
			assert.Equal(t, tc.status, status)
		})
	}

	// Option order follows submission order
	var question courseModels.Question
	require.NoError(t, env.db.Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc") }).
		First(&question).Error)
	require.Len(t, question.Options, 3)
	assert.Equal(t, "a lightweight thread", question.Options[0].OptionText)
	assert.True(t, question.Options[0].IsCorrect)
}

func TestLearnerQuizViewHidesCorrectness(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)
	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)
	env.addQuestion(t, quiz.ID, "2+2?", 0, "4", "5")
	env.enroll(t, course.ID)

	path := fmt.Sprintf("/course/%d/quiz/%d", course.ID, quiz.ID)
	status, resp := env.request(t, http.MethodGet, path, env.studentToken, nil)
	require.Equal(t, http.StatusOK, status)

	assert.NotContains(t, string(resp.Data), "is_correct")

	var view struct {
		TotalQuestions int `json:"total_questions"`
		Questions      []struct {
			ID      uint `json:"id"`
			Options []struct {
				ID         uint   `json:"id"`
				OptionText string `json:"option_text"`
			} `json:"options"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.Equal(t, 1, view.TotalQuestions)
	require.Len(t, view.Questions, 1)
	assert.Len(t, view.Questions[0].Options, 2)
}

func TestLearnerQuizRequiresEnrollment(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)
	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)
	env.addQuestion(t, quiz.ID, "2+2?", 0, "4", "5")

	path := fmt.Sprintf("/course/%d/quiz/%d", course.ID, quiz.ID)
	status, _ := env.request(t, http.MethodGet, path, env.studentToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": map[string]uint{"1": 1}})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAttemptScoringAndAwardOnce(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)
	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)
	q1 := env.addQuestion(t, quiz.ID, "2+2?", 0, "4", "5")
	q2 := env.addQuestion(t, quiz.ID, "3+3?", 1, "5", "6")
	env.enroll(t, course.ID)

	perfect := env.correctAnswers(t, quiz.ID)

	type submitResult struct {
		AttemptNumber  int  `json:"attempt_number"`
		Score          int  `json:"score"`
		CorrectAnswers int  `json:"correct_answers"`
		TotalQuestions int  `json:"total_questions"`
		PointsEarned   int  `json:"points_earned"`
		FirstPerfect   bool `json:"first_perfect"`
	}

	// Attempt 1: one of two correct -> 50%, no points
	wrongOption := q2.Options[0].ID
	status, resp := env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": map[string]uint{
			fmt.Sprint(q1.ID): perfect[q1.ID],
			fmt.Sprint(q2.ID): wrongOption,
		}})
	require.Equal(t, http.StatusOK, status)

	var first submitResult
	require.NoError(t, json.Unmarshal(resp.Data, &first))
	assert.Equal(t, 1, first.AttemptNumber)
	assert.Equal(t, 50, first.Score)
	assert.Equal(t, 0, first.PointsEarned)
	assert.False(t, first.FirstPerfect)

	// Attempt 2: perfect -> second-try tier points
	answers := make(map[string]uint, len(perfect))
	for qid, oid := range perfect {
		answers[fmt.Sprint(qid)] = oid
	}
	status, resp = env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": answers})
	require.Equal(t, http.StatusOK, status)

	var second submitResult
	require.NoError(t, json.Unmarshal(resp.Data, &second))
	assert.Equal(t, 2, second.AttemptNumber)
	assert.Equal(t, 100, second.Score)
	assert.Equal(t, 7, second.PointsEarned)
	assert.True(t, second.FirstPerfect)

	// Attempt 3: perfect again -> no further points
	status, resp = env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": answers})
	require.Equal(t, http.StatusOK, status)

	var third submitResult
	require.NoError(t, json.Unmarshal(resp.Data, &third))
	assert.Equal(t, 3, third.AttemptNumber)
	assert.Equal(t, 100, third.Score)
	assert.Equal(t, 0, third.PointsEarned)
	assert.False(t, third.FirstPerfect)

	// Ledger credited exactly once
	var ledger models.PointsLedger
	require.NoError(t, env.db.Where("user_id = ?", env.student.ID).First(&ledger).Error)
	assert.Equal(t, 7, ledger.TotalPoints)

	// History rolls the attempts up
	historyPath := fmt.Sprintf("/course/%d/quiz/%d/attempts", course.ID, quiz.ID)
	status, resp = env.request(t, http.MethodGet, historyPath, env.studentToken, nil)
	require.Equal(t, http.StatusOK, status)

	var history struct {
		Summary struct {
			TotalAttempts     int  `json:"total_attempts"`
			BestScore         int  `json:"best_score"`
			TotalPointsEarned int  `json:"total_points_earned"`
			HasPerfectScore   bool `json:"has_perfect_score"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &history))
	assert.Equal(t, 3, history.Summary.TotalAttempts)
	assert.Equal(t, 100, history.Summary.BestScore)
	assert.Equal(t, 7, history.Summary.TotalPointsEarned)
	assert.True(t, history.Summary.HasPerfectScore)
}

func TestSubmitRejectsForeignAnswerIDs(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)
	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)
	q1 := env.addQuestion(t, quiz.ID, "2+2?", 0, "4", "5")
	env.enroll(t, course.ID)

	// Unknown question id
	status, _ := env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": map[string]uint{"999999": q1.Options[0].ID}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// Option from a different question
	status, _ = env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": map[string]uint{fmt.Sprint(q1.ID): 999999}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// Nothing was recorded
	var count int64
	env.db.Model(&courseModels.Attempt{}).Where("quiz_id = ?", quiz.ID).Count(&count)
	assert.Zero(t, count)
}

func TestUnansweredQuestionsScoreAsIncorrect(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)
	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)
	q1 := env.addQuestion(t, quiz.ID, "2+2?", 0, "4", "5")
	env.addQuestion(t, quiz.ID, "3+3?", 1, "5", "6")
	env.addQuestion(t, quiz.ID, "4+4?", 0, "8", "9")
	env.enroll(t, course.ID)

	perfect := env.correctAnswers(t, quiz.ID)

	// Answer only the first of three questions, correctly: 1/3 -> 33
	status, resp := env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": map[string]uint{fmt.Sprint(q1.ID): perfect[q1.ID]}})
	require.Equal(t, http.StatusOK, status)

	var result struct {
		Score          int `json:"score"`
		CorrectAnswers int `json:"correct_answers"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 33, result.Score)
}

func TestQuizDeleteCascadesButKeepsLedger(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)
	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)
	env.addQuestion(t, quiz.ID, "2+2?", 0, "4", "5")
	env.enroll(t, course.ID)

	perfect := env.correctAnswers(t, quiz.ID)
	answers := make(map[string]uint, len(perfect))
	for qid, oid := range perfect {
		answers[fmt.Sprint(qid)] = oid
	}
	status, _ := env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": answers})
	require.Equal(t, http.StatusOK, status)

	var ledger models.PointsLedger
	require.NoError(t, env.db.Where("user_id = ?", env.student.ID).First(&ledger).Error)
	require.Equal(t, 10, ledger.TotalPoints)

	// Admin deletes the quiz
	status, _ = env.request(t, http.MethodDelete, fmt.Sprintf("/admin/quiz/%d", quiz.ID), env.adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	// Questions, options and attempts are gone with it
	var liveQuestions, liveAttempts int64
	env.db.Model(&courseModels.Question{}).Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Count(&liveQuestions)
	env.db.Model(&courseModels.Attempt{}).Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Count(&liveAttempts)
	assert.Zero(t, liveQuestions)
	assert.Zero(t, liveAttempts)

	// Learner can no longer fetch it
	status, _ = env.request(t, http.MethodGet, fmt.Sprintf("/course/%d/quiz/%d", course.ID, quiz.ID), env.studentToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Already-credited points survive
	require.NoError(t, env.db.Where("user_id = ?", env.student.ID).First(&ledger).Error)
	assert.Equal(t, 10, ledger.TotalPoints)
}

func TestPerfectScoreCompletesQuizLesson(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)

	lesson := courseModels.Lesson{
		CourseID:    course.ID,
		Title:       "Final Checkpoint",
		LessonType:  "QUIZ",
		OrderIndex:  1,
		IsPublished: true,
	}
	require.NoError(t, env.db.Create(&lesson).Error)

	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)
	quiz.LessonID = &lesson.ID
	require.NoError(t, env.db.Save(&quiz).Error)

	env.addQuestion(t, quiz.ID, "2+2?", 0, "4", "5")
	env.enroll(t, course.ID)

	// QUIZ lessons cannot be completed manually
	completePath := fmt.Sprintf("/course/%d/lesson/%d/complete", course.ID, lesson.ID)
	status, resp := env.request(t, http.MethodPost, completePath, env.studentToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, strings.Contains(resp.Message, "perfect"))

	// Imperfect score does not complete the lesson
	var q courseModels.Question
	require.NoError(t, env.db.Where("quiz_id = ?", quiz.ID).Preload("Options").First(&q).Error)
	var wrong uint
	for _, opt := range q.Options {
		if !opt.IsCorrect {
			wrong = opt.ID
		}
	}
	status, _ = env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": map[string]uint{fmt.Sprint(q.ID): wrong}})
	require.Equal(t, http.StatusOK, status)

	var completions int64
	env.db.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND lesson_id = ?", env.student.ID, lesson.ID).Count(&completions)
	assert.Zero(t, completions)

	// Perfect score completes it
	perfect := env.correctAnswers(t, quiz.ID)
	answers := make(map[string]uint, len(perfect))
	for qid, oid := range perfect {
		answers[fmt.Sprint(qid)] = oid
	}
	status, _ = env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": answers})
	require.Equal(t, http.StatusOK, status)

	env.db.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND lesson_id = ?", env.student.ID, lesson.ID).Count(&completions)
	assert.Equal(t, int64(1), completions)

	var enrollment courseModels.Enrollment
	require.NoError(t, env.db.Where("user_id = ? AND course_id = ?", env.student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	assert.Equal(t, float64(100), enrollment.Progress)
}

func TestQuizUpdateValidatesLessonBinding(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)
	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)

	other := courseModels.Course{Title: "Other Course", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, env.db.Create(&other).Error)

	foreignLesson := courseModels.Lesson{CourseID: other.ID, Title: "Elsewhere", LessonType: "QUIZ", OrderIndex: 1}
	require.NoError(t, env.db.Create(&foreignLesson).Error)
	videoLesson := courseModels.Lesson{CourseID: course.ID, Title: "Intro", LessonType: "VIDEO", OrderIndex: 1}
	require.NoError(t, env.db.Create(&videoLesson).Error)
	quizLesson := courseModels.Lesson{CourseID: course.ID, Title: "Checkpoint", LessonType: "QUIZ", OrderIndex: 2}
	require.NoError(t, env.db.Create(&quizLesson).Error)

	path := fmt.Sprintf("/admin/quiz/%d", quiz.ID)

	// Lesson from another course
	status, _ := env.request(t, http.MethodPut, path, env.adminToken, fiber.Map{"lesson_id": foreignLesson.ID})
	assert.Equal(t, http.StatusNotFound, status)

	// Lesson of the wrong type
	status, _ = env.request(t, http.MethodPut, path, env.adminToken, fiber.Map{"lesson_id": videoLesson.ID})
	assert.Equal(t, http.StatusBadRequest, status)

	// QUIZ lesson on the same course binds
	status, _ = env.request(t, http.MethodPut, path, env.adminToken, fiber.Map{"lesson_id": quizLesson.ID})
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, env.db.First(&quiz, quiz.ID).Error)
	require.NotNil(t, quiz.LessonID)
	assert.Equal(t, quizLesson.ID, *quiz.LessonID)
}

func TestSubmitRetriesOnAttemptNumberConflict(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)
	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)
	q := env.addQuestion(t, quiz.ID, "2+2?", 0, "4", "5")
	env.enroll(t, course.ID)

	// A rival submission grabs the computed attempt number first, from
	// inside the same transaction, so the handler's insert hits
	// idx_attempt_seq and has to roll back and retry.
	conflicted := false
	err := env.db.Callback().Create().Before("gorm:create").Register("rival_attempt", func(tx *gorm.DB) {
		dest, ok := tx.Statement.Dest.(*courseModels.Attempt)
		if !ok || conflicted {
			return
		}
		conflicted = true
		rival := courseModels.Attempt{
			QuizID:        dest.QuizID,
			UserID:        dest.UserID,
			AttemptNumber: dest.AttemptNumber,
			Answers:       dest.Answers,
			StartedAt:     dest.StartedAt,
			CompletedAt:   dest.CompletedAt,
		}
		assert.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error)
	})
	require.NoError(t, err)

	perfect := env.correctAnswers(t, quiz.ID)
	status, resp := env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": map[string]uint{fmt.Sprint(q.ID): perfect[q.ID]}})
	require.Equal(t, http.StatusOK, status)
	require.True(t, conflicted)

	var result struct {
		AttemptNumber int `json:"attempt_number"`
		PointsEarned  int `json:"points_earned"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 10, result.PointsEarned)

	// The retry left exactly one attempt, with no gap or duplicate
	var attempts []courseModels.Attempt
	require.NoError(t, env.db.Where("quiz_id = ? AND user_id = ?", quiz.ID, env.student.ID).
		Order("attempt_number asc").Find(&attempts).Error)
	require.Len(t, attempts, 1)
	assert.Equal(t, 1, attempts[0].AttemptNumber)
	assert.Equal(t, result.AttemptNumber, attempts[0].AttemptNumber)

	// Points were credited exactly once despite the rolled-back first try
	var ledger models.PointsLedger
	require.NoError(t, env.db.Where("user_id = ?", env.student.ID).First(&ledger).Error)
	assert.Equal(t, 10, ledger.TotalPoints)
}

func TestFourthPlusTierCoversLaterAttempts(t *testing.T) {
	env := setupTestEnv(t)
	course := env.createPublishedCourse(t)
	quiz := env.createQuiz(t, course.ID, 10, 7, 5, 2)
	q := env.addQuestion(t, quiz.ID, "2+2?", 0, "4", "5")
	env.enroll(t, course.ID)

	var wrong, right uint
	for _, opt := range q.Options {
		if opt.IsCorrect {
			right = opt.ID
		} else {
			wrong = opt.ID
		}
	}

	// Four failures, then a perfect fifth attempt
	for i := 0; i < 4; i++ {
		status, _ := env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
			fiber.Map{"answers": map[string]uint{fmt.Sprint(q.ID): wrong}})
		require.Equal(t, http.StatusOK, status)
	}

	status, resp := env.request(t, http.MethodPost, submitPath(course.ID, quiz.ID), env.studentToken,
		fiber.Map{"answers": map[string]uint{fmt.Sprint(q.ID): right}})
	require.Equal(t, http.StatusOK, status)

	var result struct {
		AttemptNumber int `json:"attempt_number"`
		PointsEarned  int `json:"points_earned"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 5, result.AttemptNumber)
	assert.Equal(t, 2, result.PointsEarned)
}
