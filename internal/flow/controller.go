package flow

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"quiz-client/internal/apiclient"
	"quiz-client/internal/logger"
	"quiz-client/internal/quiz"
)

const (
	minTopicLength       = 3
	maxTopicLength       = 100
	maxDescriptionLength = 200

	actionGenerate = "generate"
	actionSubmit   = "submit"

	msgSessionExpired = "Your session has expired. Please sign in again."
)

// Backend is the part of the API client the quiz flow calls.
type Backend interface {
	GenerateQuiz(ctx context.Context, topic, description string) (quiz.RawQuiz, error)
	SubmitQuiz(ctx context.Context, request apiclient.SubmitRequest) (quiz.ScoreResult, error)
}

// Identity names the user submissions are recorded under.
type Identity interface {
	Username() string
}

type Options struct {
	// BackendURL is quoted in connection failure messages.
	BackendURL string
	// Rand drives sample score generation. Defaults to a time-seeded source.
	Rand   *rand.Rand
	Logger *logger.Logger
}

// Snapshot is a point-in-time copy of the flow state, safe to hold on to.
type Snapshot struct {
	View         View
	Quiz         *quiz.Quiz
	Answers      quiz.AnswerMap
	Score        *quiz.ScoreResult
	Loading      bool
	LastError    string
	SubmitFailed bool
}

// Controller drives the form, quiz and score views. All methods are safe for
// concurrent use; network calls run without holding the lock.
type Controller struct {
	backend    Backend
	identity   Identity
	backendURL string
	log        *logger.Logger

	mu           sync.Mutex
	rng          *rand.Rand
	view         View
	quiz         *quiz.Quiz
	answers      quiz.AnswerMap
	score        *quiz.ScoreResult
	loading      bool
	lastError    string
	submitFailed bool
	// epoch changes whenever the view changes or the flow is reset.
	epoch uint64
}

func NewController(backend Backend, identity Identity, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Controller{
		backend:    backend,
		identity:   identity,
		backendURL: strings.TrimRight(strings.TrimSpace(opts.BackendURL), "/"),
		log:        log.With("component", "flow"),
		rng:        rng,
		view:       ViewForm,
		answers:    quiz.AnswerMap{},
	}
}

func (c *Controller) Generate(ctx context.Context, topic, description string) (quiz.Quiz, error) {
	topic = strings.TrimSpace(topic)
	description = strings.TrimSpace(description)
	if err := validateForm(topic, description); err != nil {
		return quiz.Quiz{}, err
	}

	c.mu.Lock()
	if c.view != ViewForm {
		view := c.view
		c.mu.Unlock()
		return quiz.Quiz{}, illegal(actionGenerate, view)
	}
	if c.loading {
		c.mu.Unlock()
		return quiz.Quiz{}, ErrBusy
	}
	c.loading = true
	c.lastError = ""
	epoch := c.epoch
	c.mu.Unlock()

	c.log.Info("generating quiz", "topic", topic)
	raw, err := c.backend.GenerateQuiz(ctx, topic, description)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.log.Debug("discarding stale generate result", "topic", topic)
		return quiz.Quiz{}, ErrStale
	}
	c.loading = false

	if err != nil {
		c.log.Warn("quiz generation failed", "topic", topic, "error", err)
		return quiz.Quiz{}, c.failLocked(actionGenerate, err)
	}

	generated := quiz.FromRaw(raw)
	if len(generated.Questions) == 0 {
		c.log.Warn("backend returned a quiz without questions", "quiz_id", generated.ID)
		return quiz.Quiz{}, c.failLocked(actionGenerate, errors.New("quiz has no questions"))
	}

	c.moveLocked(ViewQuiz)
	c.quiz = &generated
	c.answers = quiz.AnswerMap{}
	c.score = nil
	c.submitFailed = false
	c.log.Info("quiz ready", "quiz_id", generated.ID, "questions", len(generated.Questions))
	return generated.Clone(), nil
}

// Select records optionIndex as the answer to questionID, replacing any earlier choice.
func (c *Controller) Select(questionID int64, optionIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewQuiz || c.quiz == nil {
		return illegal("select", c.view)
	}
	if c.loading {
		return ErrBusy
	}
	question, ok := c.quiz.FindQuestion(questionID)
	if !ok {
		return invalid("question %d is not part of this quiz", questionID)
	}
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		return invalid("option %d is out of range for question %d", optionIndex, questionID)
	}

	c.answers[questionID] = optionIndex
	return nil
}

func (c *Controller) Submit(ctx context.Context) (quiz.ScoreResult, error) {
	c.mu.Lock()
	if c.view != ViewQuiz || c.quiz == nil {
		view := c.view
		c.mu.Unlock()
		return quiz.ScoreResult{}, illegal(actionSubmit, view)
	}
	if c.loading {
		c.mu.Unlock()
		return quiz.ScoreResult{}, ErrBusy
	}
	if missing := quiz.Missing(c.answers, *c.quiz); len(missing) > 0 {
		c.mu.Unlock()
		return quiz.ScoreResult{}, &IncompleteError{Missing: missing}
	}

	wire, dropped := quiz.ToWireFormat(c.answers, *c.quiz)
	if len(dropped) > 0 {
		c.log.Warn("dropping answers for unknown questions", "question_ids", dropped)
	}
	request := apiclient.SubmitRequest{
		QuizID:   c.quiz.ID,
		UserName: c.identity.Username(),
		Answers:  wire,
	}
	c.loading = true
	c.lastError = ""
	epoch := c.epoch
	c.mu.Unlock()

	c.log.Info("submitting quiz", "quiz_id", request.QuizID, "answers", len(request.Answers))
	result, err := c.backend.SubmitQuiz(ctx, request)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.log.Debug("discarding stale submit result", "quiz_id", request.QuizID)
		return quiz.ScoreResult{}, ErrStale
	}
	c.loading = false

	if err != nil {
		c.submitFailed = true
		c.log.Warn("quiz submission failed", "quiz_id", request.QuizID, "error", err)
		return quiz.ScoreResult{}, c.failLocked(actionSubmit, err)
	}

	quiz.ApplyFeedback(c.quiz, result)
	c.score = &result
	c.submitFailed = false
	c.moveLocked(ViewScore)
	c.log.Info("quiz scored", "quiz_id", request.QuizID, "score", result.Score, "total", result.TotalQuestions)
	return result, nil
}

// UseSampleData replaces a failed submission with a locally generated score.
func (c *Controller) UseSampleData() (quiz.ScoreResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewQuiz || c.quiz == nil {
		return quiz.ScoreResult{}, illegal("use sample data", c.view)
	}
	if c.loading {
		return quiz.ScoreResult{}, ErrBusy
	}
	if !c.submitFailed {
		return quiz.ScoreResult{}, ErrNoFailedSubmit
	}

	result := sampleScore(c.quiz, c.rng)
	c.score = &result
	c.submitFailed = false
	c.lastError = ""
	c.moveLocked(ViewScore)
	c.log.Info("showing sample score", "quiz_id", c.quiz.ID, "score", result.Score)
	return result, nil
}

// Back abandons the current quiz and returns to the form.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewQuiz {
		return illegal("back", c.view)
	}
	c.clearLocked()
	c.moveLocked(ViewForm)
	return nil
}

// NewQuiz leaves the score view for a fresh form.
func (c *Controller) NewQuiz() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewScore {
		return illegal("new quiz", c.view)
	}
	c.clearLocked()
	c.moveLocked(ViewForm)
	return nil
}

// Reset drops all flow state, for use when the session ends. Results of calls
// still in flight are discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLocked()
	c.view = ViewForm
	c.epoch++
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		View:         c.view,
		Answers:      c.answers.Clone(),
		Loading:      c.loading,
		LastError:    c.lastError,
		SubmitFailed: c.submitFailed,
	}
	if c.quiz != nil {
		copied := c.quiz.Clone()
		snap.Quiz = &copied
	}
	if c.score != nil {
		copied := *c.score
		copied.Feedback = append([]quiz.Feedback(nil), c.score.Feedback...)
		snap.Score = &copied
	}
	return snap
}

func (c *Controller) moveLocked(to View) {
	if !canTransition(c.view, to) {
		// Callers check the view first; reaching this is a bug.
		panic(fmt.Sprintf("flow: illegal transition %s -> %s", c.view, to))
	}
	c.view = to
	c.epoch++
}

func (c *Controller) clearLocked() {
	c.quiz = nil
	c.answers = quiz.AnswerMap{}
	c.score = nil
	c.loading = false
	c.lastError = ""
	c.submitFailed = false
}

func (c *Controller) failLocked(action string, err error) error {
	actionErr := &ActionError{
		Action:  action,
		Message: c.describe(action, err),
		Err:     err,
	}
	c.lastError = actionErr.Message
	return actionErr
}

func (c *Controller) describe(action string, err error) string {
	switch {
	case errors.Is(err, apiclient.ErrAuth):
		return msgSessionExpired
	case errors.Is(err, apiclient.ErrNetwork):
		return fmt.Sprintf("Cannot connect to backend server at %s. Please ensure the backend is running.", c.backendURL)
	default:
		return fmt.Sprintf("Failed to %s quiz. Please try again.", action)
	}
}

func validateForm(topic, description string) error {
	topicLength := utf8.RuneCountInString(topic)
	switch {
	case topicLength == 0:
		return invalid("topic is required")
	case topicLength < minTopicLength || topicLength > maxTopicLength:
		return invalid("topic must be between %d and %d characters", minTopicLength, maxTopicLength)
	case utf8.RuneCountInString(description) > maxDescriptionLength:
		return invalid("description must not exceed %d characters", maxDescriptionLength)
	}
	return nil
}
