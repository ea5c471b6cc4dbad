package apiclient

import (
	"time"

	"quiz-client/internal/quiz"
)

const (
	generatePath = "/api/quizzes/generate"
	submitPath   = "/api/quiz-submissions/submit"
	mePath       = "/api/auth/me"
	registerPath = "/api/auth/register"
	historyPath  = "/api/quiz-submissions/history"
)

type generateRequest struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

type SubmitRequest struct {
	QuizID   int64             `json:"quizId"`
	UserName string            `json:"userName"`
	Answers  []quiz.WireAnswer `json:"answers"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the identity returned by the protected probe endpoint.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Attempt is one past submission of the signed-in user.
type Attempt struct {
	QuizID         int64     `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
