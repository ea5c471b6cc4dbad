package demobackend

import (
	"time"

	"quiz-client/internal/quiz"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type profileResponse struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type generateRequest struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

type submitRequest struct {
	QuizID   int64             `json:"quizId"`
	UserName string            `json:"userName"`
	Answers  []quiz.WireAnswer `json:"answers"`
}

type historyEntryResponse struct {
	QuizID         int64     `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}
