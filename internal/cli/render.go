package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"quiz-client/internal/quiz"
)

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  login <username>")
	fmt.Fprintln(out, "  register <username> <email>")
	fmt.Fprintln(out, "  logout")
	fmt.Fprintln(out, "  status")
	fmt.Fprintln(out, "  generate [topic]")
	fmt.Fprintln(out, "  show")
	fmt.Fprintln(out, "  play")
	fmt.Fprintln(out, "  answer <question_number> <letter>")
	fmt.Fprintln(out, "  submit")
	fmt.Fprintln(out, "  sample")
	fmt.Fprintln(out, "  back")
	fmt.Fprintln(out, "  new")
	fmt.Fprintln(out, "  history")
	fmt.Fprintln(out, "  exit")
}

func printQuiz(out io.Writer, q quiz.Quiz, answers quiz.AnswerMap) {
	fmt.Fprintf(out, "\nQuiz: %s\n", q.Topic)
	if q.Description != "" {
		fmt.Fprintln(out, q.Description)
	}
	for idx, question := range q.Questions {
		selected, ok := answers[question.ID]
		if !ok {
			selected = -1
		}
		printQuestion(out, idx+1, question, selected)
	}
}

func printQuestion(out io.Writer, number int, question quiz.Question, selected int) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d: %s\n\n", number, question.Text)
	for idx, option := range question.Options {
		marker := " "
		if idx == selected {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s. %s\n", marker, quiz.OptionLetter(idx), option)
	}
}

func printScore(out io.Writer, q quiz.Quiz, result quiz.ScoreResult) {
	percentage := result.Percentage()
	fmt.Fprintln(out)
	if result.Sample {
		fmt.Fprintln(out, "Sample results (not graded by the server)")
	}
	fmt.Fprintf(out, "Score: %d/%d (%d%%)\n", result.Score, result.TotalQuestions, percentage)
	fmt.Fprintln(out, quiz.Verdict(percentage))

	for _, item := range result.Feedback {
		fmt.Fprintln(out)
		mark := "Wrong"
		if item.Correct {
			mark = "Correct"
		}
		title := fmt.Sprintf("Question %d", item.QuestionIndex+1)
		if item.QuestionIndex >= 0 && item.QuestionIndex < len(q.Questions) {
			title = fmt.Sprintf("Q%d: %s", item.QuestionIndex+1, q.Questions[item.QuestionIndex].Text)
		}
		fmt.Fprintf(out, "%s [%s]\n", title, mark)
		if !item.Correct && item.CorrectAnswer != "" {
			fmt.Fprintf(out, "  Correct answer: %s\n", item.CorrectAnswer)
		}
		if item.Explanation != "" {
			fmt.Fprintf(out, "  %s\n", item.Explanation)
		}
	}
	fmt.Fprintln(out, "\nType 'new' to take another quiz.")
}

// promptAnswer reads a single option letter and returns its index.
func promptAnswer(reader *bufio.Reader, out io.Writer, optionCount int) (int, bool) {
	if optionCount < 1 {
		return -1, false
	}

	fmt.Fprintf(out, "Your answer (A-%s): ", quiz.OptionLetter(optionCount-1))
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return -1, false
	}
	return parseLetter(line, optionCount)
}

func parseLetter(value string, optionCount int) (int, bool) {
	answer := strings.ToUpper(strings.TrimSpace(value))
	if len(answer) != 1 {
		return -1, false
	}
	index := int(answer[0]) - 'A'
	if index < 0 || index >= optionCount {
		return -1, false
	}
	return index, true
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return "", err
	}
	return strings.TrimSpace(line), nil
}
