package quiz

import "strings"

// Quiz is the locally held, display-ready form of a generated quiz.
type Quiz struct {
	ID          int64
	Topic       string
	Description string
	Questions   []Question
}

type Question struct {
	ID             int64
	Text           string
	Options        []string
	QuestionNumber int
	// CorrectOptionIndex is only known once scoring feedback has been received.
	CorrectOptionIndex *int
}

type Feedback struct {
	QuestionIndex int    `json:"questionIndex"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
	CorrectAnswer string `json:"correctAnswer"`
}

type ScoreResult struct {
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Feedback       []Feedback `json:"feedback"`
	// Sample marks a locally synthesized result that was never graded by the backend.
	Sample bool `json:"-"`
}

// RawOption, RawQuestion and RawQuiz mirror the backend quiz payload.
type RawOption struct {
	OptionLabel string `json:"optionLabel"`
	OptionText  string `json:"optionText"`
}

type RawQuestion struct {
	ID             int64       `json:"id"`
	QuestionText   string      `json:"questionText"`
	Options        []RawOption `json:"options"`
	QuestionNumber int         `json:"questionNumber"`
}

type RawQuiz struct {
	ID          int64         `json:"id"`
	Topic       string        `json:"topic"`
	Description string        `json:"description"`
	Questions   []RawQuestion `json:"questions"`
}

func FromRaw(raw RawQuiz) Quiz {
	questions := make([]Question, 0, len(raw.Questions))
	for _, item := range raw.Questions {
		options := make([]string, 0, len(item.Options))
		for _, option := range item.Options {
			options = append(options, strings.TrimSpace(option.OptionText))
		}
		questions = append(questions, Question{
			ID:             item.ID,
			Text:           strings.TrimSpace(item.QuestionText),
			Options:        options,
			QuestionNumber: item.QuestionNumber,
		})
	}

	return Quiz{
		ID:          raw.ID,
		Topic:       raw.Topic,
		Description: raw.Description,
		Questions:   questions,
	}
}

func (q Quiz) QuestionIDs() []int64 {
	ids := make([]int64, 0, len(q.Questions))
	for _, question := range q.Questions {
		ids = append(ids, question.ID)
	}
	return ids
}

func (q Quiz) FindQuestion(id int64) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Clone returns a deep copy so callers can hand snapshots out without sharing slices.
func (q Quiz) Clone() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for idx, question := range q.Questions {
		copied := question
		copied.Options = append([]string(nil), question.Options...)
		if question.CorrectOptionIndex != nil {
			value := *question.CorrectOptionIndex
			copied.CorrectOptionIndex = &value
		}
		out.Questions[idx] = copied
	}
	return out
}

// OptionLetter renders an option index as A, B, C...
func OptionLetter(index int) string {
	if index < 0 || index > 25 {
		return "?"
	}
	return string(rune('A' + index))
}
