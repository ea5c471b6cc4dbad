package flow

import "fmt"

// View is the screen the quiz flow is currently on.
type View int

const (
	ViewForm View = iota
	ViewQuiz
	ViewScore
)

func (v View) String() string {
	switch v {
	case ViewForm:
		return "form"
	case ViewQuiz:
		return "quiz"
	case ViewScore:
		return "score"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

var transitions = map[View][]View{
	ViewForm:  {ViewQuiz},
	ViewQuiz:  {ViewScore, ViewForm},
	ViewScore: {ViewForm},
}

func canTransition(from, to View) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
