package quiz

import (
	"sort"
	"strconv"
)

// AnswerMap holds the user's selections keyed by question id.
type AnswerMap map[int64]int

// WireAnswer is one entry of the submission payload.
type WireAnswer struct {
	QuestionID     int64  `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
}

func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for id, index := range m {
		out[id] = index
	}
	return out
}

// ToWireFormat converts selections into the backend payload in quiz question order.
// Selections for ids that are not part of the quiz are returned in dropped instead
// of failing the conversion.
func ToWireFormat(answers AnswerMap, q Quiz) (wire []WireAnswer, dropped []int64) {
	known := make(map[int64]struct{}, len(q.Questions))
	wire = make([]WireAnswer, 0, len(answers))
	for _, question := range q.Questions {
		known[question.ID] = struct{}{}
		index, ok := answers[question.ID]
		if !ok {
			continue
		}
		wire = append(wire, WireAnswer{
			QuestionID:     question.ID,
			SelectedAnswer: strconv.Itoa(index),
		})
	}

	for id := range answers {
		if _, ok := known[id]; !ok {
			dropped = append(dropped, id)
		}
	}
	sort.Slice(dropped, func(i, j int) bool { return dropped[i] < dropped[j] })

	return wire, dropped
}

// Missing lists unanswered question ids in quiz order.
func Missing(answers AnswerMap, q Quiz) []int64 {
	var missing []int64
	for _, question := range q.Questions {
		if _, ok := answers[question.ID]; !ok {
			missing = append(missing, question.ID)
		}
	}
	return missing
}

func IsComplete(answers AnswerMap, q Quiz) bool {
	return len(Missing(answers, q)) == 0
}
