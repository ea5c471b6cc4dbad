package demobackend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"quiz-client/internal/quiz"
)

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethod string) {
	w.Header().Set("Allow", allowedMethod)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserExists):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Username already exists"})
	case errors.Is(err, ErrEmailExists):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Email already exists"})
	case errors.Is(err, ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Quiz not found"})
	case errors.Is(err, ErrUnknownQuestion), errors.Is(err, ErrInvalidOption):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func decodeJSON(r *http.Request, into any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// lengthBetween returns the client-facing validation message, or "" when value fits.
func lengthBetween(field, value string, minLength, maxLength int) string {
	length := utf8.RuneCountInString(value)
	if length == 0 {
		return field + " is required"
	}
	if length < minLength || length > maxLength {
		return fmt.Sprintf("%s must be between %d and %d characters", field, minLength, maxLength)
	}
	return ""
}

func validateRegister(request registerRequest) string {
	if message := lengthBetween("Username", request.Username, 3, 50); message != "" {
		return message
	}
	if strings.TrimSpace(request.Email) == "" {
		return "Email is required"
	}
	if _, err := mail.ParseAddress(request.Email); err != nil {
		return "Email should be valid"
	}
	return lengthBetween("Password", request.Password, 6, 100)
}

func validateGenerate(request generateRequest) string {
	if message := lengthBetween("Topic", request.Topic, 3, 100); message != "" {
		return message
	}
	if utf8.RuneCountInString(request.Description) > 200 {
		return "Description must not exceed 200 characters"
	}
	return ""
}

func toRawQuiz(stored StoredQuiz) quiz.RawQuiz {
	raw := quiz.RawQuiz{
		ID:          stored.ID,
		Topic:       stored.Topic,
		Description: stored.Description,
		Questions:   make([]quiz.RawQuestion, 0, len(stored.Questions)),
	}
	for _, question := range stored.Questions {
		options := make([]quiz.RawOption, 0, len(question.Options))
		for idx, option := range question.Options {
			options = append(options, quiz.RawOption{
				OptionLabel: quiz.OptionLetter(idx),
				OptionText:  option,
			})
		}
		raw.Questions = append(raw.Questions, quiz.RawQuestion{
			ID:             question.ID,
			QuestionText:   question.Text,
			Options:        options,
			QuestionNumber: question.QuestionNumber,
		})
	}
	return raw
}
