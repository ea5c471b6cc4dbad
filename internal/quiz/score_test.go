package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		score, total, want int
	}{
		{4, 5, 80},
		{0, 5, 0},
		{5, 5, 100},
		{2, 3, 67},
		{1, 8, 13},
		{3, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percentage(tc.score, tc.total), "Percentage(%d, %d)", tc.score, tc.total)
	}
}

func TestVerdictTiers(t *testing.T) {
	assert.Contains(t, Verdict(95), "Excellent")
	assert.Contains(t, Verdict(80), "Great job")
	assert.Contains(t, Verdict(49), "Keep learning")
}

func TestFromRawTrimsAndFlattensOptions(t *testing.T) {
	raw := RawQuiz{
		ID:    3,
		Topic: "Rivers",
		Questions: []RawQuestion{
			{
				ID:             11,
				QuestionText:   "  Longest river?  ",
				QuestionNumber: 1,
				Options: []RawOption{
					{OptionLabel: "A", OptionText: " Nile "},
					{OptionLabel: "B", OptionText: "Amazon"},
				},
			},
		},
	}

	got := FromRaw(raw)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "Longest river?", got.Questions[0].Text)
	assert.Equal(t, []string{"Nile", "Amazon"}, got.Questions[0].Options)
	assert.Nil(t, got.Questions[0].CorrectOptionIndex)
}

func TestApplyFeedbackResolvesCorrectOption(t *testing.T) {
	q := Quiz{Questions: []Question{
		{ID: 1, Options: []string{"Nile", "Amazon"}},
		{ID: 2, Options: []string{"Red", "Blue"}},
	}}

	ApplyFeedback(&q, ScoreResult{Feedback: []Feedback{
		{QuestionIndex: 0, CorrectAnswer: "Amazon"},
		{QuestionIndex: 1, CorrectAnswer: "Green"},
		{QuestionIndex: 7, CorrectAnswer: "Red"},
	}})

	require.NotNil(t, q.Questions[0].CorrectOptionIndex)
	assert.Equal(t, 1, *q.Questions[0].CorrectOptionIndex)
	assert.Nil(t, q.Questions[1].CorrectOptionIndex)
}

func TestCloneDoesNotShareOptions(t *testing.T) {
	correct := 0
	q := Quiz{Questions: []Question{{ID: 1, Options: []string{"x"}, CorrectOptionIndex: &correct}}}
	copied := q.Clone()
	copied.Questions[0].Options[0] = "y"
	*copied.Questions[0].CorrectOptionIndex = 5

	assert.Equal(t, "x", q.Questions[0].Options[0])
	assert.Equal(t, 0, *q.Questions[0].CorrectOptionIndex)
}
