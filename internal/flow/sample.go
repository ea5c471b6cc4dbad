package flow

import (
	"fmt"
	"math/rand"

	"quiz-client/internal/quiz"
)

// sampleScore builds a placeholder result for q. The score always matches the
// number of questions marked correct.
func sampleScore(q *quiz.Quiz, rng *rand.Rand) quiz.ScoreResult {
	total := len(q.Questions)
	result := quiz.ScoreResult{
		TotalQuestions: total,
		Feedback:       make([]quiz.Feedback, 0, total),
		Sample:         true,
	}

	for idx, question := range q.Questions {
		correct := rng.Intn(2) == 1
		if correct {
			result.Score++
		}
		answer := ""
		if len(question.Options) > 0 {
			answer = question.Options[rng.Intn(len(question.Options))]
		}
		result.Feedback = append(result.Feedback, quiz.Feedback{
			QuestionIndex: idx,
			Correct:       correct,
			Explanation:   fmt.Sprintf("This is feedback for question %d", idx+1),
			CorrectAnswer: answer,
		})
	}

	return result
}
