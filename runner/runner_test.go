package runner_test

import (
	"context"
	"errors"
	"testing"

	"learnhub/runner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	quiz        *runner.QuizView
	fetchErr    error
	submitErr   error
	result      *runner.SubmitResult
	fetchCalls  int
	submitCalls int
	lastAnswers map[uint]uint
}

func (g *fakeGateway) FetchQuiz(ctx context.Context, courseID, quizID uint) (*runner.QuizView, error) {
	g.fetchCalls++
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	return g.quiz, nil
}

func (g *fakeGateway) SubmitAttempt(ctx context.Context, courseID, quizID uint, answers map[uint]uint) (*runner.SubmitResult, error) {
	g.submitCalls++
	g.lastAnswers = answers
	if g.submitErr != nil {
		return nil, g.submitErr
	}
	return g.result, nil
}

func twoQuestionQuiz() *runner.QuizView {
	return &runner.QuizView{
		ID:    1,
		Title: "Basics",
		Questions: []runner.QuestionView{
			{ID: 10, Text: "Q1", Options: []runner.OptionView{{ID: 101, Text: "a"}, {ID: 102, Text: "b"}}},
			{ID: 20, Text: "Q2", Options: []runner.OptionView{{ID: 201, Text: "a"}, {ID: 202, Text: "b"}}},
		},
	}
}

func startedRunner(t *testing.T, g *fakeGateway) *runner.Runner {
	t.Helper()
	r := runner.New(g, 1, 1)
	require.NoError(t, r.Load(context.Background()))
	require.NoError(t, r.Start())
	return r
}

func TestLoadFailureAndRetry(t *testing.T) {
	g := &fakeGateway{quiz: twoQuestionQuiz(), fetchErr: errors.New("network down")}
	r := runner.New(g, 1, 1)

	err := r.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, runner.StateError, r.State())
	assert.Error(t, r.LastError())

	g.fetchErr = nil
	require.NoError(t, r.Retry(context.Background()))
	assert.Equal(t, runner.StateReady, r.State())
	assert.Equal(t, 2, g.fetchCalls)
}

func TestStartClearsAnswers(t *testing.T) {
	g := &fakeGateway{quiz: twoQuestionQuiz()}
	r := startedRunner(t, g)

	require.NoError(t, r.SelectOption(10, 101))
	require.NoError(t, r.Next())
	assert.Equal(t, 1, r.CurrentIndex())

	// restarting resets position and selections
	g.result = &runner.SubmitResult{ScorePercent: 50}
	require.NoError(t, r.SelectOption(20, 201))
	require.NoError(t, r.Submit(context.Background()))
	require.NoError(t, r.Retake())

	assert.Equal(t, runner.StateTaking, r.State())
	assert.Equal(t, 0, r.CurrentIndex())
	assert.Empty(t, r.Answers())
}

func TestNavigationClamps(t *testing.T) {
	g := &fakeGateway{quiz: twoQuestionQuiz()}
	r := startedRunner(t, g)

	require.NoError(t, r.Previous())
	assert.Equal(t, 0, r.CurrentIndex())

	require.NoError(t, r.Next())
	require.NoError(t, r.Next())
	assert.Equal(t, 1, r.CurrentIndex())

	require.NoError(t, r.GoTo(0))
	assert.Equal(t, 0, r.CurrentIndex())
}

func TestSelectOptionOverwrites(t *testing.T) {
	g := &fakeGateway{quiz: twoQuestionQuiz()}
	r := startedRunner(t, g)

	require.NoError(t, r.SelectOption(10, 101))
	require.NoError(t, r.SelectOption(10, 102))
	assert.Equal(t, map[uint]uint{10: 102}, r.Answers())

	assert.ErrorIs(t, r.SelectOption(99, 101), runner.ErrUnknownQuestion)
	assert.ErrorIs(t, r.SelectOption(10, 999), runner.ErrUnknownOption)
}

func TestSubmitRefusedWhileIncomplete(t *testing.T) {
	g := &fakeGateway{quiz: twoQuestionQuiz()}
	r := startedRunner(t, g)

	// only the second question answered; jump to the end and try
	require.NoError(t, r.GoTo(1))
	require.NoError(t, r.SelectOption(20, 201))

	err := r.Submit(context.Background())
	var ua *runner.UnansweredError
	require.ErrorAs(t, err, &ua)
	assert.Equal(t, 1, ua.Count)
	assert.Equal(t, 0, ua.FirstIndex)

	// gate must hold before any network call, and navigate back
	assert.Zero(t, g.submitCalls)
	assert.Equal(t, 0, r.CurrentIndex())
	assert.Equal(t, runner.StateTaking, r.State())
}

func TestSubmitOnlyFromLastQuestion(t *testing.T) {
	g := &fakeGateway{quiz: twoQuestionQuiz()}
	r := startedRunner(t, g)

	require.NoError(t, r.SelectOption(10, 101))
	require.NoError(t, r.SelectOption(20, 201))

	assert.ErrorIs(t, r.Submit(context.Background()), runner.ErrNotOnLastQuestion)
	assert.Zero(t, g.submitCalls)

	require.NoError(t, r.GoTo(1))
	g.result = &runner.SubmitResult{ScorePercent: 50}
	require.NoError(t, r.Submit(context.Background()))
	assert.Equal(t, runner.StateResults, r.State())
	assert.Equal(t, map[uint]uint{10: 101, 20: 201}, g.lastAnswers)
}

func TestSubmitFailureKeepsAnswers(t *testing.T) {
	g := &fakeGateway{quiz: twoQuestionQuiz(), submitErr: errors.New("500")}
	r := startedRunner(t, g)

	require.NoError(t, r.SelectOption(10, 101))
	require.NoError(t, r.SelectOption(20, 202))
	require.NoError(t, r.GoTo(1))

	err := r.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, runner.StateTaking, r.State())
	assert.Len(t, r.Answers(), 2)
	assert.Error(t, r.LastError())
}

func TestPerfectScoreHook(t *testing.T) {
	g := &fakeGateway{quiz: twoQuestionQuiz()}
	r := startedRunner(t, g)

	fired := 0
	r.OnPerfectScore(func() { fired++ })

	require.NoError(t, r.SelectOption(10, 101))
	require.NoError(t, r.SelectOption(20, 202))
	require.NoError(t, r.GoTo(1))

	// 99% must not fire
	g.result = &runner.SubmitResult{ScorePercent: 99}
	require.NoError(t, r.Submit(context.Background()))
	assert.Zero(t, fired)

	// a perfect repeat fires again, even with zero points earned
	require.NoError(t, r.Retake())
	require.NoError(t, r.SelectOption(10, 101))
	require.NoError(t, r.SelectOption(20, 202))
	require.NoError(t, r.GoTo(1))
	g.result = &runner.SubmitResult{ScorePercent: 100, PointsEarned: 0}
	require.NoError(t, r.Submit(context.Background()))
	assert.Equal(t, 1, fired)

	require.NoError(t, r.Retake())
	require.NoError(t, r.SelectOption(10, 101))
	require.NoError(t, r.SelectOption(20, 202))
	require.NoError(t, r.GoTo(1))
	require.NoError(t, r.Submit(context.Background()))
	assert.Equal(t, 2, fired)
}

func TestEmptyQuizIsTerminal(t *testing.T) {
	g := &fakeGateway{quiz: &runner.QuizView{ID: 1, Title: "Empty"}}
	r := runner.New(g, 1, 1)
	require.NoError(t, r.Load(context.Background()))

	assert.ErrorIs(t, r.Start(), runner.ErrNoQuestions)
	assert.Equal(t, runner.StateNoQuestions, r.State())

	// no way out
	assert.ErrorIs(t, r.Start(), runner.ErrInvalidTransition)
	assert.ErrorIs(t, r.Submit(context.Background()), runner.ErrInvalidTransition)
}

func TestResultsBackToOverview(t *testing.T) {
	g := &fakeGateway{quiz: twoQuestionQuiz(), result: &runner.SubmitResult{ScorePercent: 50}}
	r := startedRunner(t, g)

	require.NoError(t, r.SelectOption(10, 101))
	require.NoError(t, r.SelectOption(20, 201))
	require.NoError(t, r.GoTo(1))
	require.NoError(t, r.Submit(context.Background()))

	require.NoError(t, r.BackToOverview())
	assert.Equal(t, runner.StateReady, r.State())

	// a fresh start is allowed from the overview
	require.NoError(t, r.Start())
	assert.Equal(t, runner.StateTaking, r.State())
	assert.Empty(t, r.Answers())
}
