package demobackend

import (
	"errors"
	"fmt"
	"strconv"

	"quiz-client/internal/quiz"
)

var (
	ErrUnknownQuestion = errors.New("question not found")
	ErrInvalidOption   = errors.New("invalid option index")
)

// Grade scores answers against the stored answer key. A selected answer is an
// option index; a non-numeric value is compared as option text. The total is
// always the number of questions in the quiz.
func Grade(stored StoredQuiz, answers []quiz.WireAnswer) (quiz.ScoreResult, error) {
	byID := make(map[int64]StoredQuestion, len(stored.Questions))
	for _, question := range stored.Questions {
		byID[question.ID] = question
	}

	result := quiz.ScoreResult{
		TotalQuestions: len(stored.Questions),
		Feedback:       make([]quiz.Feedback, 0, len(answers)),
	}

	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			return quiz.ScoreResult{}, fmt.Errorf("%w: %d", ErrUnknownQuestion, answer.QuestionID)
		}

		selected, err := selectedText(question, answer.SelectedAnswer)
		if err != nil {
			return quiz.ScoreResult{}, err
		}

		correctText := ""
		if question.CorrectIndex >= 0 && question.CorrectIndex < len(question.Options) {
			correctText = question.Options[question.CorrectIndex]
		}
		correct := selected == correctText
		if correct {
			result.Score++
		}

		result.Feedback = append(result.Feedback, quiz.Feedback{
			QuestionIndex: question.QuestionNumber - 1,
			Correct:       correct,
			Explanation:   feedbackText(question, selected, correctText, correct),
			CorrectAnswer: correctText,
		})
	}

	return result, nil
}

func selectedText(question StoredQuestion, selected string) (string, error) {
	index, err := strconv.Atoi(selected)
	if err != nil {
		return selected, nil
	}
	if index < 0 || index >= len(question.Options) {
		return "", fmt.Errorf("%w: %d", ErrInvalidOption, index)
	}
	return question.Options[index], nil
}

func feedbackText(question StoredQuestion, selected, correctText string, correct bool) string {
	if correct {
		return "Correct! " + question.Explanation
	}
	return fmt.Sprintf("Incorrect. You selected '%s', but the correct answer is '%s'. %s",
		selected, correctText, question.Explanation)
}
