package demobackend

import (
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var (
	ErrUserExists     = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
	ErrBadCredentials = errors.New("invalid username or password")
	ErrQuizNotFound   = errors.New("quiz not found")
)

type User struct {
	Username     string
	Email        string
	Role         string
	PasswordHash []byte
	CreatedAt    time.Time
}

// StoredQuestion keeps the answer key next to the question shown to clients.
type StoredQuestion struct {
	ID             int64
	Text           string
	Options        []string
	CorrectIndex   int
	Explanation    string
	QuestionNumber int
}

type StoredQuiz struct {
	ID          int64
	Topic       string
	Description string
	Questions   []StoredQuestion
	CreatedAt   time.Time
}

type Attempt struct {
	QuizID      int64
	UserName    string
	Score       int
	Total       int
	SubmittedAt time.Time
}

// Store is the in-memory persistence of the demo backend.
type Store struct {
	mu             sync.RWMutex
	users          map[string]User
	quizzes        map[int64]StoredQuiz
	attempts       []Attempt
	nextQuizID     int64
	nextQuestionID int64
	now            func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:          make(map[string]User),
		quizzes:        make(map[int64]StoredQuiz),
		nextQuizID:     1,
		nextQuestionID: 1,
		now:            time.Now,
	}
}

// SeedDefaultUsers installs the admin/admin123 and user/user123 demo accounts.
func (s *Store) SeedDefaultUsers() error {
	seeds := []struct {
		username, email, password, role string
	}{
		{"admin", "admin@quiz.com", "admin123", RoleAdmin},
		{"user", "user@quiz.com", "user123", RoleUser},
	}
	for _, seed := range seeds {
		if _, err := s.CreateUser(seed.username, seed.email, seed.password, seed.role); err != nil && !errors.Is(err, ErrUserExists) {
			return err
		}
	}
	return nil
}

func (s *Store) CreateUser(username, email, password, role string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return User{}, ErrUserExists
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, email) {
			return User{}, ErrEmailExists
		}
	}

	user := User{
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	s.users[username] = user
	return user, nil
}

func (s *Store) Authenticate(username, password string) (User, error) {
	s.mu.RLock()
	user, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrBadCredentials
	}
	return user, nil
}

// SaveQuiz assigns ids and question numbers and stores the quiz.
func (s *Store) SaveQuiz(topic, description string, questions []GeneratedQuestion) StoredQuiz {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := StoredQuiz{
		ID:          s.nextQuizID,
		Topic:       topic,
		Description: description,
		Questions:   make([]StoredQuestion, 0, len(questions)),
		CreatedAt:   s.now().UTC(),
	}
	s.nextQuizID++

	for idx, question := range questions {
		stored.Questions = append(stored.Questions, StoredQuestion{
			ID:             s.nextQuestionID,
			Text:           question.Text,
			Options:        append([]string(nil), question.Options...),
			CorrectIndex:   question.CorrectIndex,
			Explanation:    question.Explanation,
			QuestionNumber: idx + 1,
		})
		s.nextQuestionID++
	}

	s.quizzes[stored.ID] = stored
	return stored
}

func (s *Store) Quiz(id int64) (StoredQuiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.quizzes[id]
	if !ok {
		return StoredQuiz{}, ErrQuizNotFound
	}
	return stored, nil
}

func (s *Store) RecordAttempt(attempt Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt.SubmittedAt = s.now().UTC()
	s.attempts = append(s.attempts, attempt)
}

// Attempts returns the recorded attempts of userName, newest first.
func (s *Store) Attempts(userName string) []Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Attempt
	for idx := len(s.attempts) - 1; idx >= 0; idx-- {
		if s.attempts[idx].UserName == userName {
			out = append(out, s.attempts[idx])
		}
	}
	return out
}
