package scoring

import (
	"errors"
	"math"

	course "learnhub/models/course"
)

var (
	// ErrNoQuestions is returned when grading a quiz with no questions
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrUnknownQuestion is returned when an answer references a question not in the quiz
	ErrUnknownQuestion = errors.New("answer references a question that does not belong to this quiz")
	// ErrUnknownOption is returned when an answer references an option not in the question
	ErrUnknownOption = errors.New("answer references an option that does not belong to the question")
)

// QuestionResult is the graded outcome for one question
type QuestionResult struct {
	QuestionID       uint   `json:"question_id"`
	SelectedOptionID uint   `json:"selected_option_id"` // 0 when unanswered
	IsCorrect        bool   `json:"is_correct"`
	CorrectOptionIDs []uint `json:"correct_option_ids"`
}

// Result is the graded outcome for a full answer set
type Result struct {
	TotalQuestions int              `json:"total_questions"`
	CorrectCount   int              `json:"correct_answers"`
	ScorePercent   int              `json:"score_percent"`
	Results        []QuestionResult `json:"results"`
}

// Grade compares an answer set (question id -> selected option id) against the
// quiz's questions as they exist now. Every answer must reference a question
// and option belonging to the quiz; grading is all-or-nothing. A question
// without an answer counts as incorrect, never as an error.
func Grade(questions []course.Question, answers map[uint]uint) (*Result, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	known := make(map[uint]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	for questionID := range answers {
		if !known[questionID] {
			return nil, ErrUnknownQuestion
		}
	}

	result := &Result{
		TotalQuestions: len(questions),
		Results:        make([]QuestionResult, 0, len(questions)),
	}

	for _, q := range questions {
		var correctIDs []uint
		validOption := make(map[uint]bool, len(q.Options))
		for _, opt := range q.Options {
			validOption[opt.ID] = true
			if opt.IsCorrect {
				correctIDs = append(correctIDs, opt.ID)
			}
		}

		qr := QuestionResult{
			QuestionID:       q.ID,
			CorrectOptionIDs: correctIDs,
		}

		if selected, answered := answers[q.ID]; answered {
			if !validOption[selected] {
				return nil, ErrUnknownOption
			}
			qr.SelectedOptionID = selected
			for _, id := range correctIDs {
				if id == selected {
					qr.IsCorrect = true
					break
				}
			}
		}

		if qr.IsCorrect {
			result.CorrectCount++
		}
		result.Results = append(result.Results, qr)
	}

	result.ScorePercent = Percent(result.CorrectCount, result.TotalQuestions)
	return result, nil
}

// Percent converts a correct count into an integer percentage, rounding
// half up (2 of 3 -> 67).
func Percent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// Schedule is the tiered point award keyed by attempt number
type Schedule struct {
	FirstTry   int
	SecondTry  int
	ThirdTry   int
	FourthPlus int
}

// ScheduleFor reads the award schedule off a quiz definition
func ScheduleFor(q *course.Quiz) Schedule {
	return Schedule{
		FirstTry:   q.FirstTryPoints,
		SecondTry:  q.SecondTryPoints,
		ThirdTry:   q.ThirdTryPoints,
		FourthPlus: q.FourthPlusPoints,
	}
}

// PointsFor returns the award tier for an attempt number. Attempt 4 and every
// attempt after it share the fourth tier.
func (s Schedule) PointsFor(attemptNumber int) int {
	switch {
	case attemptNumber <= 1:
		return s.FirstTry
	case attemptNumber == 2:
		return s.SecondTry
	case attemptNumber == 3:
		return s.ThirdTry
	default:
		return s.FourthPlus
	}
}

// Award decides the points for one attempt. Points are awarded at most once
// per learner per quiz: only the attempt that first reaches 100% earns them.
func Award(s Schedule, attemptNumber, scorePercent int, hadPerfectBefore bool) (points int, firstPerfect bool) {
	if scorePercent != 100 || hadPerfectBefore {
		return 0, false
	}
	return s.PointsFor(attemptNumber), true
}
