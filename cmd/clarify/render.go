package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	clarifysdk "github.com/clarifyhq/clarify-sdk-go"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Faint(true)
)

// printQuestion renders one question card with its numbered options.
// total may be zero when the question count is not yet known.
func printQuestion(out io.Writer, q clarifysdk.Question, index, total int) {
	heading := fmt.Sprintf("Question %d", index)
	if total > 0 {
		heading = fmt.Sprintf("Question %d of %d", index, total)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, titleStyle.Render(heading)+" "+categoryStyle.Render("["+q.Category+"]"))
	fmt.Fprintln(out, q.Text)
	for i, option := range q.Options {
		fmt.Fprintf(out, "  %s %s\n", numberStyle.Render(fmt.Sprintf("%d.", i+1)), option)
	}
}

func printProgress(out io.Writer, p clarifysdk.Progress) {
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Progress: %d/%d (%.0f%%)", p.Answered, p.Total, p.Percentage)))
}

// printContext renders the final aggregated session context with the
// question texts resolved against the recorded answers.
func printContext(out io.Writer, sc *clarifysdk.SessionContext) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Task context"))
	fmt.Fprintf(out, "Task:    %s\n", sc.TaskDescription)
	fmt.Fprintf(out, "Session: %s\n", sc.SessionID)
	printProgress(out, sc.Progress)

	if len(sc.Responses) == 0 {
		return
	}

	fmt.Fprintln(out, "Responses:")
	for _, q := range sc.Questions {
		answer, ok := sc.Responses[q.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "  %s\n", q.Text)
		fmt.Fprintf(out, "    %s\n", answerStyle.Render(answer))
	}
}

func printSummaries(out io.Writer, sessions []clarifysdk.SessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No sessions."))

		return
	}

	for _, s := range sessions {
		fmt.Fprintf(out, "%s  %s\n", titleStyle.Render(s.SessionID), s.TaskDescription)
		fmt.Fprintf(out, "  %s\n", dimStyle.Render(fmt.Sprintf("%d/%d answered (%.0f%%)",
			s.Progress.Answered, s.Progress.Total, s.Progress.Percentage)))
	}
}
