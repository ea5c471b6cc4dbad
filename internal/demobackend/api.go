package demobackend

import (
	"time"

	"golang.org/x/time/rate"

	"quiz-client/internal/logger"
)

const (
	defaultGenerateEvery = 2 * time.Second
	defaultGenerateBurst = 5
)

type Options struct {
	// Source defaults to an offline TemplateSource.
	Source QuestionSource
	Logger *logger.Logger
	// GenerateLimit and GenerateBurst bound quiz generation per user.
	GenerateLimit rate.Limit
	GenerateBurst int
}

type API struct {
	store   *Store
	source  QuestionSource
	log     *logger.Logger
	limiter *userLimiter
}

func NewAPI(store *Store, opts Options) *API {
	if store == nil {
		store = NewStore()
	}
	source := opts.Source
	if source == nil {
		source = NewTemplateSource(nil)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	limit := opts.GenerateLimit
	if limit <= 0 {
		limit = rate.Every(defaultGenerateEvery)
	}
	burst := opts.GenerateBurst
	if burst <= 0 {
		burst = defaultGenerateBurst
	}

	return &API{
		store:   store,
		source:  source,
		log:     log.With("component", "demobackend"),
		limiter: newUserLimiter(limit, burst),
	}
}
