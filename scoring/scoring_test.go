package scoring_test

import (
	"testing"

	course "learnhub/models/course"
	"learnhub/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildQuestions() []course.Question {
	q1 := course.Question{QuizID: 1, QuestionText: "Q1"}
	q1.ID = 10
	q1.Options = []course.Option{
		{QuestionID: 10, OptionText: "a", IsCorrect: true},
		{QuestionID: 10, OptionText: "b"},
	}
	q1.Options[0].ID = 101
	q1.Options[1].ID = 102

	q2 := course.Question{QuizID: 1, QuestionText: "Q2"}
	q2.ID = 20
	q2.Options = []course.Option{
		{QuestionID: 20, OptionText: "a"},
		{QuestionID: 20, OptionText: "b", IsCorrect: true},
		{QuestionID: 20, OptionText: "c"},
	}
	q2.Options[0].ID = 201
	q2.Options[1].ID = 202
	q2.Options[2].ID = 203

	return []course.Question{q1, q2}
}

func TestGradeAllCorrect(t *testing.T) {
	questions := buildQuestions()

	result, err := scoring.Grade(questions, map[uint]uint{10: 101, 20: 202})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 2, result.CorrectCount)
	assert.Equal(t, 100, result.ScorePercent)
	require.Len(t, result.Results, 2)
	assert.True(t, result.Results[0].IsCorrect)
	assert.Equal(t, []uint{101}, result.Results[0].CorrectOptionIDs)
}

func TestGradePartial(t *testing.T) {
	questions := buildQuestions()

	result, err := scoring.Grade(questions, map[uint]uint{10: 101, 20: 203})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 50, result.ScorePercent)
	assert.True(t, result.Results[0].IsCorrect)
	assert.False(t, result.Results[1].IsCorrect)
	assert.Equal(t, uint(203), result.Results[1].SelectedOptionID)
}

func TestGradeUnansweredCountsIncorrect(t *testing.T) {
	questions := buildQuestions()

	result, err := scoring.Grade(questions, map[uint]uint{10: 101})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 50, result.ScorePercent)
	assert.False(t, result.Results[1].IsCorrect)
	assert.Equal(t, uint(0), result.Results[1].SelectedOptionID)
}

func TestGradeRejectsForeignIDs(t *testing.T) {
	questions := buildQuestions()

	_, err := scoring.Grade(questions, map[uint]uint{99: 101})
	assert.ErrorIs(t, err, scoring.ErrUnknownQuestion)

	// option 203 belongs to question 20, not 10
	_, err = scoring.Grade(questions, map[uint]uint{10: 203})
	assert.ErrorIs(t, err, scoring.ErrUnknownOption)
}

func TestGradeEmptyQuiz(t *testing.T) {
	_, err := scoring.Grade(nil, map[uint]uint{})
	assert.ErrorIs(t, err, scoring.ErrNoQuestions)
}

func TestPercentRoundsHalfUp(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{3, 4, 75},
		{2, 3, 67},
		{1, 3, 33},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds up
		{0, 5, 0},
		{5, 5, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoring.Percent(tt.correct, tt.total), "%d/%d", tt.correct, tt.total)
	}
}

func TestPointsForTiers(t *testing.T) {
	s := scoring.Schedule{FirstTry: 10, SecondTry: 7, ThirdTry: 5, FourthPlus: 2}

	assert.Equal(t, 10, s.PointsFor(1))
	assert.Equal(t, 7, s.PointsFor(2))
	assert.Equal(t, 5, s.PointsFor(3))
	assert.Equal(t, 2, s.PointsFor(4))
	assert.Equal(t, 2, s.PointsFor(9))
}

func TestAwardOnlyOnFirstPerfect(t *testing.T) {
	s := scoring.Schedule{FirstTry: 10, SecondTry: 7, ThirdTry: 5, FourthPlus: 2}

	// attempt 1: 50% -> nothing
	points, first := scoring.Award(s, 1, 50, false)
	assert.Zero(t, points)
	assert.False(t, first)

	// attempt 2: first 100% -> second-try tier
	points, first = scoring.Award(s, 2, 100, false)
	assert.Equal(t, 7, points)
	assert.True(t, first)

	// attempt 3: repeat 100% -> already awarded
	points, first = scoring.Award(s, 3, 100, true)
	assert.Zero(t, points)
	assert.False(t, first)
}
