package runner

import (
	"context"
	"errors"
	"fmt"
)

// State is the runner's position in the quiz-taking lifecycle
type State string

const (
	StateLoading     State = "loading"
	StateReady       State = "ready"
	StateNoQuestions State = "no_questions" // terminal, empty quiz
	StateTaking      State = "taking"
	StateSubmitting  State = "submitting"
	StateResults     State = "results"
	StateError       State = "error"
)

var (
	// ErrInvalidTransition is returned when an action is not allowed in the current state
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrUnknownQuestion is returned when selecting an option for a question not in the quiz
	ErrUnknownQuestion = errors.New("question does not belong to this quiz")
	// ErrUnknownOption is returned when selecting an option not offered by the question
	ErrUnknownOption = errors.New("option does not belong to this question")
	// ErrNotOnLastQuestion is returned when submit is requested before the last question
	ErrNotOnLastQuestion = errors.New("submit is only available on the last question")
	// ErrNoQuestions is returned when starting a quiz that has no questions
	ErrNoQuestions = errors.New("quiz has no questions")
)

// UnansweredError reports a refused submission: some questions have no
// recorded answer. The runner never sends a partial answer set.
type UnansweredError struct {
	Count      int
	FirstIndex int
}

func (e *UnansweredError) Error() string {
	return fmt.Sprintf("%d question(s) unanswered", e.Count)
}

// OptionView is an answer choice as shown to the learner.
// Correctness is deliberately absent before submission.
type OptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuestionView is a question as shown to the learner
type QuestionView struct {
	ID      uint         `json:"id"`
	Text    string       `json:"text"`
	Options []OptionView `json:"options"`
}

// QuizView is the learner-facing quiz definition
type QuizView struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
}

// QuestionOutcome is the graded result for one question, returned after submission
type QuestionOutcome struct {
	QuestionID       uint   `json:"question_id"`
	SelectedOptionID uint   `json:"selected_option_id"`
	IsCorrect        bool   `json:"is_correct"`
	CorrectOptionIDs []uint `json:"correct_option_ids"`
}

// SubmitResult is the server's grading of one attempt
type SubmitResult struct {
	AttemptNumber  int               `json:"attempt_number"`
	TotalQuestions int               `json:"total_questions"`
	CorrectAnswers int               `json:"correct_answers"`
	ScorePercent   int               `json:"score_percent"`
	PointsEarned   int               `json:"points_earned"`
	IsFirstPerfect bool              `json:"is_first_perfect"`
	Results        []QuestionOutcome `json:"results"`
}

// Gateway is the backend the runner talks to
type Gateway interface {
	// FetchQuiz returns the quiz definition without correctness data
	FetchQuiz(ctx context.Context, courseID, quizID uint) (*QuizView, error)
	// SubmitAttempt grades a complete answer set (question id -> option id)
	SubmitAttempt(ctx context.Context, courseID, quizID uint, answers map[uint]uint) (*SubmitResult, error)
}

// Runner drives a learner through a quiz question by question. It is not
// safe for concurrent use; all transitions are caller-serialized.
type Runner struct {
	gateway  Gateway
	courseID uint
	quizID   uint

	state   State
	quiz    *QuizView
	answers map[uint]uint
	current int
	result  *SubmitResult
	lastErr error

	onPerfectScore func()
}

// New creates a runner in the loading state
func New(gateway Gateway, courseID, quizID uint) *Runner {
	return &Runner{
		gateway:  gateway,
		courseID: courseID,
		quizID:   quizID,
		state:    StateLoading,
		answers:  make(map[uint]uint),
	}
}

// OnPerfectScore registers the lesson-completion hook, fired (fire-and-forget)
// once per submission whose score is exactly 100.
func (r *Runner) OnPerfectScore(hook func()) {
	r.onPerfectScore = hook
}

func (r *Runner) State() State          { return r.state }
func (r *Runner) Quiz() *QuizView       { return r.quiz }
func (r *Runner) CurrentIndex() int     { return r.current }
func (r *Runner) Result() *SubmitResult { return r.result }
func (r *Runner) LastError() error      { return r.lastErr }

// Answers returns a copy of the recorded answers
func (r *Runner) Answers() map[uint]uint {
	out := make(map[uint]uint, len(r.answers))
	for k, v := range r.answers {
		out[k] = v
	}
	return out
}

// Load fetches the quiz definition. loading -> ready, or loading -> error.
func (r *Runner) Load(ctx context.Context) error {
	if r.state != StateLoading {
		return ErrInvalidTransition
	}

	quiz, err := r.gateway.FetchQuiz(ctx, r.courseID, r.quizID)
	if err != nil {
		r.state = StateError
		r.lastErr = err
		return err
	}

	r.quiz = quiz
	r.state = StateReady
	r.lastErr = nil
	return nil
}

// Retry re-enters loading after a failed fetch
func (r *Runner) Retry(ctx context.Context) error {
	if r.state != StateError {
		return ErrInvalidTransition
	}
	r.state = StateLoading
	return r.Load(ctx)
}

// Start begins an attempt with a cleared answer set. An empty quiz moves to
// the terminal no-questions state instead.
func (r *Runner) Start() error {
	if r.state != StateReady {
		return ErrInvalidTransition
	}
	if len(r.quiz.Questions) == 0 {
		r.state = StateNoQuestions
		return ErrNoQuestions
	}

	r.answers = make(map[uint]uint)
	r.current = 0
	r.result = nil
	r.state = StateTaking
	return nil
}

// SelectOption records the answer for a question, overwriting any prior
// selection. Single-select only.
func (r *Runner) SelectOption(questionID, optionID uint) error {
	if r.state != StateTaking {
		return ErrInvalidTransition
	}

	for _, q := range r.quiz.Questions {
		if q.ID != questionID {
			continue
		}
		for _, opt := range q.Options {
			if opt.ID == optionID {
				r.answers[questionID] = optionID
				return nil
			}
		}
		return ErrUnknownOption
	}
	return ErrUnknownQuestion
}

// Next advances the question pointer, clamped to the last question
func (r *Runner) Next() error {
	return r.GoTo(r.current + 1)
}

// Previous moves the question pointer back, clamped to the first question
func (r *Runner) Previous() error {
	return r.GoTo(r.current - 1)
}

// GoTo jumps directly to a question index, clamped to the valid range.
// Answering is not required to move on; learners may skip and come back.
func (r *Runner) GoTo(index int) error {
	if r.state != StateTaking {
		return ErrInvalidTransition
	}
	if index < 0 {
		index = 0
	}
	if max := len(r.quiz.Questions) - 1; index > max {
		index = max
	}
	r.current = index
	return nil
}

// Unanswered returns the indexes of questions without a recorded answer,
// lowest first
func (r *Runner) Unanswered() []int {
	var missing []int
	for i, q := range r.quiz.Questions {
		if _, ok := r.answers[q.ID]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// Submit sends the attempt for grading. It refuses to touch the gateway
// unless every question has an answer and the learner is on the last
// question; an incomplete set navigates to the first unanswered question.
// A gateway failure returns to taking with all answers intact.
func (r *Runner) Submit(ctx context.Context) error {
	if r.state != StateTaking {
		return ErrInvalidTransition
	}
	if r.current != len(r.quiz.Questions)-1 {
		return ErrNotOnLastQuestion
	}

	if missing := r.Unanswered(); len(missing) > 0 {
		r.current = missing[0]
		return &UnansweredError{Count: len(missing), FirstIndex: missing[0]}
	}

	r.state = StateSubmitting
	result, err := r.gateway.SubmitAttempt(ctx, r.courseID, r.quizID, r.Answers())
	if err != nil {
		r.state = StateTaking
		r.lastErr = err
		return err
	}

	r.result = result
	r.state = StateResults
	r.lastErr = nil

	if result.ScorePercent == 100 && r.onPerfectScore != nil {
		r.onPerfectScore()
	}
	return nil
}

// Retake re-enters taking with a cleared answer set. Attempt numbering is
// server-assigned; nothing increments locally.
func (r *Runner) Retake() error {
	if r.state != StateResults {
		return ErrInvalidTransition
	}
	r.answers = make(map[uint]uint)
	r.current = 0
	r.state = StateTaking
	return nil
}

// BackToOverview returns from results to the quiz overview
func (r *Runner) BackToOverview() error {
	if r.state != StateResults {
		return ErrInvalidTransition
	}
	r.state = StateReady
	return nil
}
