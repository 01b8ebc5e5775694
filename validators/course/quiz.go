package courseValidator

import (
	"strconv"
	"strings"

	"learnhub/middleware"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

const (
	minOptions = 2
	maxOptions = 8
)

func parseIDParam(c *fiber.Ctx, name string) (int, bool) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// validateQuizPayload applies the shared quiz field rules. On create the
// title is mandatory; on update an absent title means "leave unchanged".
func validateQuizPayload(reqData *courseModels.QuizInput, requireTitle bool) map[string]string {
	errors := make(map[string]string)

	reqData.Title = strings.TrimSpace(reqData.Title)

	if reqData.Title == "" {
		if requireTitle {
			errors["title"] = "Quiz title is required!"
		}
	} else if len(reqData.Title) > 255 {
		errors["title"] = "Quiz title must be at most 255 characters!"
	}

	points := map[string]*int{
		"first_try_points":   reqData.FirstTryPoints,
		"second_try_points":  reqData.SecondTryPoints,
		"third_try_points":   reqData.ThirdTryPoints,
		"fourth_plus_points": reqData.FourthPlusPoints,
	}
	for field, value := range points {
		if value != nil && *value < 0 {
			errors[field] = "Point value must be a non-negative integer!"
		}
	}

	return errors
}

// CreateQuiz validates quiz creation under a course
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(courseModels.QuizInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validateQuizPayload(reqData, true); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// UpdateQuiz validates a partial quiz update
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID, ok := parseIDParam(c, "quiz_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		reqData := new(courseModels.QuizInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validateQuizPayload(reqData, false); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("quizID", quizID)
		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}

// QuizIDParam validates the quiz_id route parameter
func QuizIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID, ok := parseIDParam(c, "quiz_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("quizID", quizID)
		return c.Next()
	}
}

// ValidateQuestionInput checks a question payload against the authoring
// rules: non-empty text, 2-8 non-empty options, exactly one marked correct.
// Zero correct options and more than one are both rejected outright.
func ValidateQuestionInput(reqData *courseModels.QuestionInput) map[string]string {
	errors := make(map[string]string)

	reqData.QuestionText = strings.TrimSpace(reqData.QuestionText)
	if reqData.QuestionText == "" {
		errors["question_text"] = "Question text is required!"
	}

	if len(reqData.Options) < minOptions {
		errors["options"] = "A question needs at least 2 options!"
	} else if len(reqData.Options) > maxOptions {
		errors["options"] = "A question can have at most 8 options!"
	}

	correctCount := 0
	for i := range reqData.Options {
		reqData.Options[i].OptionText = strings.TrimSpace(reqData.Options[i].OptionText)
		if reqData.Options[i].OptionText == "" {
			errors["options"] = "Option text is required for every option!"
		}
		if reqData.Options[i].IsCorrect {
			correctCount++
		}
	}

	if _, ok := errors["options"]; !ok {
		if correctCount == 0 {
			errors["options"] = "At least one option must be marked correct!"
		} else if correctCount > 1 {
			errors["options"] = "Only one option can be marked correct!"
		}
	}

	return errors
}

// AddQuestion validates question creation under a quiz
func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID, ok := parseIDParam(c, "quiz_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		reqData := new(courseModels.QuestionInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := ValidateQuestionInput(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("quizID", quizID)
		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// UpdateQuestion validates a question update (full option-set replacement)
func UpdateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		questionID, ok := parseIDParam(c, "question_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Question ID!", nil)
		}

		reqData := new(courseModels.QuestionInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := ValidateQuestionInput(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("questionID", questionID)
		c.Locals("validatedQuestionUpdate", reqData)
		return c.Next()
	}
}

// DeleteQuestion validates question deletion
func DeleteQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		questionID, ok := parseIDParam(c, "question_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Question ID!", nil)
		}

		c.Locals("questionID", questionID)
		return c.Next()
	}
}

// GetQuiz validates the learner-facing quiz fetch
func GetQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		quizID, ok := parseIDParam(c, "quiz_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("quizID", quizID)
		return c.Next()
	}
}

// SubmitAttempt validates the attempt submission payload shape. Answer ids
// are checked against the quiz inside the scoring transaction, not here.
func SubmitAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		quizID, ok := parseIDParam(c, "quiz_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		reqData := new(struct {
			Answers   map[uint]uint `json:"answers"`
			StartedAt *int64        `json:"started_at"` // unix seconds, optional
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.Answers) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"answers": "At least one answer is required!",
			})
		}

		c.Locals("courseID", courseID)
		c.Locals("quizID", quizID)
		c.Locals("validatedAnswers", reqData.Answers)
		if reqData.StartedAt != nil {
			c.Locals("attemptStartedAt", *reqData.StartedAt)
		}
		return c.Next()
	}
}
