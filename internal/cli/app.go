package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"quiz-client/internal/apiclient"
	"quiz-client/internal/flow"
	"quiz-client/internal/logger"
	"quiz-client/internal/quiz"
	"quiz-client/internal/session"
)

const defaultMaxInvalidAnswers = 3

// HistorySource lists past submissions; satisfied by *apiclient.Client.
type HistorySource interface {
	History(ctx context.Context) ([]apiclient.Attempt, error)
}

type Config struct {
	Session *session.Manager
	Flow    *flow.Controller
	Router  *Router
	History HistorySource
	// BackendURL is shown in the banner.
	BackendURL        string
	MaxInvalidAnswers int
	Logger            *logger.Logger
}

type app struct {
	session           *session.Manager
	flow              *flow.Controller
	router            *Router
	history           HistorySource
	log               *logger.Logger
	reader            *bufio.Reader
	out               io.Writer
	maxInvalidAnswers int
}

// Run restores any saved session and serves commands from in until EOF or exit.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	if cfg.Session == nil || cfg.Flow == nil {
		return errors.New("session and flow are required")
	}
	router := cfg.Router
	if router == nil {
		router = NewRouter(apiclient.SignInRoute)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	maxInvalidAnswers := cfg.MaxInvalidAnswers
	if maxInvalidAnswers <= 0 {
		maxInvalidAnswers = defaultMaxInvalidAnswers
	}

	a := &app{
		session:           cfg.Session,
		flow:              cfg.Flow,
		router:            router,
		history:           cfg.History,
		log:               log.With("component", "cli"),
		reader:            bufio.NewReader(in),
		out:               out,
		maxInvalidAnswers: maxInvalidAnswers,
	}

	cfg.Session.Restore(ctx)
	if cfg.Session.Current().Authenticated {
		router.Go(homeRoute)
	} else {
		router.Go(apiclient.SignInRoute)
	}

	fmt.Fprintf(out, "quiz-client\nserver=%s\n", cfg.BackendURL)
	a.printStatus()
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}
			if strings.TrimSpace(line) == "" {
				fmt.Fprintln(out)
				return nil
			}
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])
		if command == "exit" || command == "quit" {
			return nil
		}

		a.dispatch(ctx, command, args)

		if a.router.TakeRedirect() {
			a.flow.Reset()
			fmt.Fprintln(out, "Signed out because the server rejected your credentials. Please sign in again.")
		}
	}
}

func (a *app) dispatch(ctx context.Context, command string, args []string) {
	switch command {
	case "help":
		printHelp(a.out)
	case "status", "whoami":
		a.printStatus()
	case "login":
		a.runLogin(ctx, args)
	case "register":
		a.runRegister(ctx, args)
	case "logout":
		a.runLogout(ctx)
	case "generate":
		a.requireSignIn(func() { a.runGenerate(ctx, args) })
	case "show":
		a.requireSignIn(a.runShow)
	case "answer":
		a.requireSignIn(func() { a.runAnswer(args) })
	case "play":
		a.requireSignIn(a.runPlay)
	case "submit":
		a.requireSignIn(func() { a.runSubmit(ctx) })
	case "sample":
		a.requireSignIn(a.runSample)
	case "back":
		a.requireSignIn(func() { a.report(a.flow.Back()) })
	case "new":
		a.requireSignIn(func() { a.report(a.flow.NewQuiz()) })
	case "history":
		a.requireSignIn(func() { a.runHistory(ctx) })
	default:
		fmt.Fprintln(a.out, "unknown command. type 'help' for usage.")
	}
}

func (a *app) requireSignIn(run func()) {
	if !a.router.signedIn() {
		fmt.Fprintln(a.out, "Please sign in first: login <username>")
		return
	}
	run()
}

func (a *app) runLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "usage: login <username>")
		return
	}
	password, err := promptLine(a.reader, a.out, "Password: ")
	if err != nil {
		return
	}

	result := a.session.Login(ctx, args[1], password)
	if !result.Success {
		a.flow.Reset()
		a.router.Go(apiclient.SignInRoute)
		fmt.Fprintf(a.out, "error: %s\n", result.Error)
		return
	}
	a.router.Go(homeRoute)
	a.printStatus()
}

func (a *app) runRegister(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Fprintln(a.out, "usage: register <username> <email>")
		return
	}
	password, err := promptLine(a.reader, a.out, "Password: ")
	if err != nil {
		return
	}
	confirm, err := promptLine(a.reader, a.out, "Confirm password: ")
	if err != nil {
		return
	}
	if password != confirm {
		fmt.Fprintln(a.out, "error: passwords do not match")
		return
	}

	result := a.session.Register(ctx, args[1], args[2], password)
	if !result.Success {
		fmt.Fprintf(a.out, "error: %s\n", result.Error)
		return
	}
	a.router.Go(homeRoute)
	a.printStatus()
}

func (a *app) runLogout(ctx context.Context) {
	a.session.Logout(ctx)
	a.flow.Reset()
	a.router.Go(apiclient.SignInRoute)
	fmt.Fprintln(a.out, "Signed out.")
}

func (a *app) runGenerate(ctx context.Context, args []string) {
	topic := strings.TrimSpace(strings.Join(args[1:], " "))
	if topic == "" {
		var err error
		if topic, err = promptLine(a.reader, a.out, "Topic: "); err != nil {
			return
		}
	}
	description, err := promptLine(a.reader, a.out, "Description (optional): ")
	if err != nil {
		return
	}

	fmt.Fprintln(a.out, "Generating quiz...")
	generated, err := a.flow.Generate(ctx, topic, description)
	if err != nil {
		a.report(err)
		return
	}
	printQuiz(a.out, generated, quiz.AnswerMap{})
}

func (a *app) runShow() {
	snap := a.flow.Snapshot()
	switch snap.View {
	case flow.ViewForm:
		fmt.Fprintln(a.out, "No quiz in progress. Use 'generate <topic>' to start one.")
	case flow.ViewQuiz:
		printQuiz(a.out, *snap.Quiz, snap.Answers)
		fmt.Fprintf(a.out, "Answered %d of %d.\n", len(snap.Answers), len(snap.Quiz.Questions))
	case flow.ViewScore:
		printScore(a.out, *snap.Quiz, *snap.Score)
	}
}

func (a *app) runAnswer(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(a.out, "usage: answer <question_number> <letter>")
		return
	}
	snap := a.flow.Snapshot()
	if snap.Quiz == nil || snap.View != flow.ViewQuiz {
		a.notInView(snap.View)
		return
	}

	number, err := strconv.Atoi(args[1])
	if err != nil || number < 1 || number > len(snap.Quiz.Questions) {
		fmt.Fprintf(a.out, "invalid question number: must be 1-%d\n", len(snap.Quiz.Questions))
		return
	}
	question := snap.Quiz.Questions[number-1]
	index, ok := parseLetter(args[2], len(question.Options))
	if !ok {
		fmt.Fprintf(a.out, "invalid answer: must be a letter A-%s\n", quiz.OptionLetter(len(question.Options)-1))
		return
	}
	a.report(a.flow.Select(question.ID, index))
}

// runPlay walks the unanswered questions in order, prompting for each.
func (a *app) runPlay() {
	snap := a.flow.Snapshot()
	if snap.Quiz == nil || snap.View != flow.ViewQuiz {
		a.notInView(snap.View)
		return
	}

	for idx, question := range snap.Quiz.Questions {
		if _, answered := snap.Answers[question.ID]; answered {
			continue
		}
		printQuestion(a.out, idx+1, question, -1)

		invalidCount := 0
		for {
			index, ok := promptAnswer(a.reader, a.out, len(question.Options))
			if ok {
				a.report(a.flow.Select(question.ID, index))
				break
			}
			invalidCount++
			if invalidCount >= a.maxInvalidAnswers {
				fmt.Fprintln(a.out, "Skipping question after multiple invalid responses.")
				break
			}
			fmt.Fprintf(a.out, "Invalid input. Attempts remaining: %d\n", a.maxInvalidAnswers-invalidCount)
		}
	}

	snap = a.flow.Snapshot()
	if snap.Quiz != nil && quiz.IsComplete(snap.Answers, *snap.Quiz) {
		fmt.Fprintln(a.out, "\nAll questions answered. Type 'submit' to get your score.")
	}
}

func (a *app) runSubmit(ctx context.Context) {
	fmt.Fprintln(a.out, "Submitting...")
	result, err := a.flow.Submit(ctx)
	if err != nil {
		a.report(err)
		var actionErr *flow.ActionError
		if errors.As(err, &actionErr) && !errors.Is(err, apiclient.ErrAuth) {
			fmt.Fprintln(a.out, "Type 'submit' to retry, or 'sample' to view sample results.")
		}
		return
	}
	snap := a.flow.Snapshot()
	printScore(a.out, *snap.Quiz, result)
}

func (a *app) runSample() {
	result, err := a.flow.UseSampleData()
	if err != nil {
		a.report(err)
		return
	}
	snap := a.flow.Snapshot()
	printScore(a.out, *snap.Quiz, result)
}

func (a *app) runHistory(ctx context.Context) {
	if a.history == nil {
		fmt.Fprintln(a.out, "History is not available.")
		return
	}
	attempts, err := a.history.History(ctx)
	if err != nil {
		a.log.Warn("history request failed", "error", err)
		fmt.Fprintf(a.out, "error: %s\n", describeHistoryError(err))
		return
	}
	if len(attempts) == 0 {
		fmt.Fprintln(a.out, "No submissions yet.")
		return
	}
	fmt.Fprintln(a.out, "Your submissions:")
	for idx, attempt := range attempts {
		fmt.Fprintf(a.out, "%d. quiz %d score=%d/%d (%d%%) submitted=%s\n",
			idx+1,
			attempt.QuizID,
			attempt.Score,
			attempt.TotalQuestions,
			attempt.Percentage,
			attempt.SubmittedAt.Format(time.RFC3339),
		)
	}
}

func describeHistoryError(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrNetwork):
		return "Cannot connect to server. Please check if the backend is running."
	case errors.Is(err, apiclient.ErrAuth):
		return "Your session has expired. Please sign in again."
	default:
		return "Failed to load history. Please try again."
	}
}

func (a *app) printStatus() {
	current := a.session.Current()
	if !current.Authenticated {
		fmt.Fprintln(a.out, "Not signed in.")
		return
	}
	user := current.User
	if user.Email != "" {
		fmt.Fprintf(a.out, "Signed in as %s <%s> (%s)\n", user.Username, user.Email, user.Role)
		return
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", user.Username)
}

// report prints err in the form the user should see it.
func (a *app) report(err error) {
	if err == nil {
		return
	}

	var (
		actionErr  *flow.ActionError
		incomplete *flow.IncompleteError
	)
	switch {
	case errors.As(err, &actionErr):
		fmt.Fprintf(a.out, "error: %s\n", actionErr.Message)
	case errors.As(err, &incomplete):
		fmt.Fprintf(a.out, "%s Missing: %s\n", incomplete.Error(), formatQuestionNumbers(a.flow.Snapshot().Quiz, incomplete.Missing))
	case errors.Is(err, flow.ErrBusy):
		fmt.Fprintln(a.out, "Please wait for the current request to finish.")
	case errors.Is(err, flow.ErrStale):
		a.log.Debug("ignoring stale result", "error", err)
	case errors.Is(err, flow.ErrIllegalTransition):
		a.notInView(a.flow.Snapshot().View)
	default:
		fmt.Fprintf(a.out, "error: %v\n", err)
	}
}

func (a *app) notInView(view flow.View) {
	fmt.Fprintf(a.out, "Not available in the %s view. Type 'help' for usage.\n", view)
}

func formatQuestionNumbers(q *quiz.Quiz, ids []int64) string {
	if q == nil {
		return ""
	}
	numbers := make([]string, 0, len(ids))
	for _, id := range ids {
		for idx, question := range q.Questions {
			if question.ID == id {
				numbers = append(numbers, strconv.Itoa(idx+1))
				break
			}
		}
	}
	return strings.Join(numbers, ", ")
}
