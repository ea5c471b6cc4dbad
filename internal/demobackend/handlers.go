package demobackend

import (
	"net/http"
	"strings"

	"quiz-client/internal/quiz"
)

func (a *API) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var request registerRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	request.Username = strings.TrimSpace(request.Username)
	request.Email = strings.TrimSpace(request.Email)
	if message := validateRegister(request); message != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
		return
	}

	user, err := a.store.CreateUser(request.Username, request.Email, request.Password, RoleUser)
	if err != nil {
		a.log.Info("registration rejected", "username", request.Username, "error", err)
		writeStoreError(w, err)
		return
	}

	a.log.Info("user registered", "username", user.Username)
	writeJSON(w, http.StatusOK, registerResponse{
		Message:  "User registered successfully",
		Username: user.Username,
		Role:     user.Role,
	})
}

func (a *API) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	user, _ := userFromContext(r.Context())

	writeJSON(w, http.StatusOK, profileResponse{
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}

func (a *API) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	user, _ := userFromContext(r.Context())
	if !a.limiter.Allow(user.Username) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many quiz generation requests"})
		return
	}

	var request generateRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	request.Topic = strings.TrimSpace(request.Topic)
	request.Description = strings.TrimSpace(request.Description)
	if message := validateGenerate(request); message != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
		return
	}

	questions, err := a.source.Questions(r.Context(), request.Topic, request.Description, QuestionsPerQuiz)
	if err != nil {
		a.log.Warn("question source failed", "topic", request.Topic, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to generate questions"})
		return
	}

	stored := a.store.SaveQuiz(request.Topic, request.Description, questions)
	a.log.Info("quiz generated", "quiz_id", stored.ID, "topic", stored.Topic, "username", user.Username)
	writeJSON(w, http.StatusCreated, toRawQuiz(stored))
}

func (a *API) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	user, _ := userFromContext(r.Context())

	var request submitRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if request.QuizID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Quiz ID is required"})
		return
	}
	if len(request.Answers) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Answers are required"})
		return
	}

	stored, err := a.store.Quiz(request.QuizID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	result, err := Grade(stored, request.Answers)
	if err != nil {
		a.log.Info("submission rejected", "quiz_id", request.QuizID, "error", err)
		writeStoreError(w, err)
		return
	}

	userName := strings.TrimSpace(request.UserName)
	if userName == "" {
		userName = user.Username
	}
	a.store.RecordAttempt(Attempt{
		QuizID:   stored.ID,
		UserName: userName,
		Score:    result.Score,
		Total:    result.TotalQuestions,
	})

	a.log.Info("quiz graded", "quiz_id", stored.ID, "user_name", userName, "score", result.Score, "total", result.TotalQuestions)
	writeJSON(w, http.StatusOK, result)
}

func (a *API) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	user, _ := userFromContext(r.Context())

	attempts := a.store.Attempts(user.Username)
	response := make([]historyEntryResponse, 0, len(attempts))
	for _, attempt := range attempts {
		response = append(response, historyEntryResponse{
			QuizID:         attempt.QuizID,
			Score:          attempt.Score,
			TotalQuestions: attempt.Total,
			Percentage:     quiz.Percentage(attempt.Score, attempt.Total),
			SubmittedAt:    attempt.SubmittedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
