package demobackend

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math/rand"
	"sync"
	"time"

	"quiz-client/internal/opentdb"
)

const QuestionsPerQuiz = 5

// GeneratedQuestion is a question with its answer key, before ids are assigned.
type GeneratedQuestion struct {
	Text         string
	Options      []string
	CorrectIndex int
	Explanation  string
}

// QuestionSource produces the questions of a new quiz.
type QuestionSource interface {
	Questions(ctx context.Context, topic, description string, count int) ([]GeneratedQuestion, error)
}

// TemplateSource builds topic-flavoured questions offline.
type TemplateSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewTemplateSource(rng *rand.Rand) *TemplateSource {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TemplateSource{rng: rng}
}

var templates = []struct {
	question    string
	correct     string
	incorrect   [3]string
	explanation string
}{
	{
		question:    "What is the best first step when learning %s?",
		correct:     "Understand the core concepts",
		incorrect:   [3]string{"Memorize every edge case", "Skip straight to advanced topics", "Avoid practical exercises"},
		explanation: "Core concepts are the foundation that everything else in %s builds on.",
	},
	{
		question:    "Which habit helps most when practicing %s?",
		correct:     "Regular hands-on practice",
		incorrect:   [3]string{"Reading without applying", "Practicing once a year", "Copying answers without review"},
		explanation: "Skills in %s stick through repeated, deliberate practice.",
	},
	{
		question:    "How should you deal with mistakes while studying %s?",
		correct:     "Review them to understand the cause",
		incorrect:   [3]string{"Ignore them", "Stop studying the topic", "Assume they will not happen again"},
		explanation: "Mistakes in %s point directly at the gaps worth closing.",
	},
	{
		question:    "What is a reliable way to check your understanding of %s?",
		correct:     "Explain it to someone else",
		incorrect:   [3]string{"Reread the same page", "Count the hours spent", "Trust your first impression"},
		explanation: "Teaching %s exposes the parts you have not fully understood.",
	},
	{
		question:    "Which resource is most useful for going deeper into %s?",
		correct:     "Primary documentation and references",
		incorrect:   [3]string{"Unverified rumours", "Outdated summaries only", "Random guesses"},
		explanation: "Authoritative references keep your knowledge of %s accurate.",
	},
	{
		question:    "What makes a project a good exercise in %s?",
		correct:     "It applies several concepts together",
		incorrect:   [3]string{"It avoids all new concepts", "It has no clear goal", "It is copied line by line"},
		explanation: "Combining ideas shows how the parts of %s fit together.",
	},
}

func (s *TemplateSource) Questions(_ context.Context, topic, _ string, count int) ([]GeneratedQuestion, error) {
	if count <= 0 {
		count = QuestionsPerQuiz
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.rng.Perm(len(templates))
	questions := make([]GeneratedQuestion, 0, count)
	for i := 0; i < count; i++ {
		tmpl := templates[order[i%len(order)]]
		options := []string{tmpl.correct, tmpl.incorrect[0], tmpl.incorrect[1], tmpl.incorrect[2]}
		s.rng.Shuffle(len(options), func(a, b int) { options[a], options[b] = options[b], options[a] })

		correctIndex := 0
		for idx, option := range options {
			if option == tmpl.correct {
				correctIndex = idx
			}
		}
		questions = append(questions, GeneratedQuestion{
			Text:         fmt.Sprintf(tmpl.question, topic),
			Options:      options,
			CorrectIndex: correctIndex,
			Explanation:  fmt.Sprintf(tmpl.explanation, topic),
		})
	}
	return questions, nil
}

// TriviaFetcher is satisfied by *opentdb.Client.
type TriviaFetcher interface {
	FetchQuestions(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)
}

// TriviaSource serves general trivia from OpenTriviaDB; the topic only names the quiz.
type TriviaSource struct {
	fetcher TriviaFetcher
	mu      sync.Mutex
	rng     *rand.Rand
}

func NewTriviaSource(fetcher TriviaFetcher, rng *rand.Rand) *TriviaSource {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TriviaSource{fetcher: fetcher, rng: rng}
}

func (s *TriviaSource) Questions(ctx context.Context, _, _ string, count int) ([]GeneratedQuestion, error) {
	if count <= 0 {
		count = QuestionsPerQuiz
	}
	raw, err := s.fetcher.FetchQuestions(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("fetch trivia: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("trivia source returned no questions")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	questions := make([]GeneratedQuestion, 0, len(raw))
	for _, item := range raw {
		questions = append(questions, s.build(item))
	}
	return questions, nil
}

func (s *TriviaSource) build(raw opentdb.RawQuestion) GeneratedQuestion {
	type choice struct {
		text      string
		isCorrect bool
	}

	choices := make([]choice, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		choices = append(choices, choice{text: html.UnescapeString(incorrect)})
	}
	correctText := html.UnescapeString(raw.CorrectAnswer)
	choices = append(choices, choice{text: correctText, isCorrect: true})

	s.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	options := make([]string, len(choices))
	correctIndex := -1
	for idx, candidate := range choices {
		options[idx] = candidate.text
		if candidate.isCorrect {
			correctIndex = idx
		}
	}

	explanation := fmt.Sprintf("The correct answer is %s.", correctText)
	if category := html.UnescapeString(raw.Category); category != "" {
		explanation = fmt.Sprintf("%s (%s)", explanation, category)
	}

	return GeneratedQuestion{
		Text:         html.UnescapeString(raw.Question),
		Options:      options,
		CorrectIndex: correctIndex,
		Explanation:  explanation,
	}
}
