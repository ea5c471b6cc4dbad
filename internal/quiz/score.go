package quiz

import (
	"math"
	"strings"
)

// Percentage returns round(100 * score / total), or 0 for an empty quiz.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

func (r ScoreResult) Percentage() int {
	return Percentage(r.Score, r.TotalQuestions)
}

// Verdict is the headline shown next to a percentage.
func Verdict(percentage int) string {
	switch {
	case percentage >= 90:
		return "Excellent! You're a master of this topic!"
	case percentage >= 80:
		return "Great job! You have a solid understanding!"
	case percentage >= 70:
		return "Good work! You're on the right track!"
	case percentage >= 60:
		return "Not bad! Keep studying to improve!"
	case percentage >= 50:
		return "You're getting there! More practice needed."
	default:
		return "Keep learning! Every mistake is a learning opportunity!"
	}
}

// ApplyFeedback records the correct option of each graded question by matching
// the feedback's correct answer text against the question's options.
// Feedback whose index or answer text cannot be resolved is skipped.
func ApplyFeedback(q *Quiz, result ScoreResult) {
	for _, item := range result.Feedback {
		if item.QuestionIndex < 0 || item.QuestionIndex >= len(q.Questions) {
			continue
		}
		question := &q.Questions[item.QuestionIndex]
		want := strings.TrimSpace(item.CorrectAnswer)
		for idx, option := range question.Options {
			if option == want {
				correct := idx
				question.CorrectOptionIndex = &correct
				break
			}
		}
	}
}
