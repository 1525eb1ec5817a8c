package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	clarifysdk "github.com/clarifyhq/clarify-sdk-go"
	"github.com/spf13/cobra"
)

func askCmd(flags *rootFlags) *cobra.Command {
	var (
		auto   bool
		stream bool
	)

	cmd := &cobra.Command{
		Use:   "ask [task]",
		Short: "Generate clarifying questions for a task and answer them",
		Long: `Ask sends a task description to the service, walks through the
clarifying questions it generates, and prints the aggregated task context.

Questions are answered interactively unless --auto is given, in which case
every question is answered with its first option. With --stream, questions
are retrieved over the incremental event stream and printed as they arrive.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := defaultTask
			if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
				task = args[0]
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("No task given, using example: "+task))
			}

			return runAsk(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), flags, task, auto, stream)
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "Answer every question with its first option")
	cmd.Flags().BoolVar(&stream, "stream", false, "Retrieve questions over the event stream")

	return cmd
}

func runAsk(ctx context.Context, out io.Writer, in io.Reader, flags *rootFlags, task string, auto, stream bool) error {
	logger, cfg, err := setup(flags)
	if err != nil {
		return err
	}

	opts := clientOptions(logger, cfg)
	if stream {
		opts = append(opts, clarifysdk.WithStreamingDelivery(true))
	}

	if err := checkHealth(ctx, cfg, opts); err != nil {
		return err
	}

	fmt.Fprintln(out, titleStyle.Render("Task: ")+task)

	// The question set and count fill in as retrieval events arrive; the
	// answer phase only starts once retrieval is done, so the prompt and the
	// auto renderer always see the final values.
	var (
		total     int
		answered  int
		questions = map[string]clarifysdk.Question{}
	)

	answers := clarifysdk.FirstOption()
	if !auto {
		answers = promptAnswers(bufio.NewScanner(in), out, &total)
	}

	for ev, err := range clarifysdk.RunSession(ctx, task, answers, opts...) {
		if err != nil {
			return err
		}

		switch e := ev.(type) {
		case *clarifysdk.StartEvent:
			fmt.Fprintln(out, dimStyle.Render(e.Message))
		case *clarifysdk.QuestionEvent:
			questions[e.Question.ID] = e.Question
			if stream {
				fmt.Fprintf(out, "Received question %d: %s\n", len(questions), e.Question.Text)
			}
		case *clarifysdk.CompleteEvent:
			total = e.QuestionCount
			fmt.Fprintf(out, "%s %s\n",
				okStyle.Render(fmt.Sprintf("Generated %d questions", e.QuestionCount)),
				dimStyle.Render("(session "+e.SessionID+")"))
		case *clarifysdk.AnsweredEvent:
			answered++
			if auto {
				printQuestion(out, questions[e.QuestionID], answered, total)
				fmt.Fprintln(out, "Auto-selected: "+answerStyle.Render(e.Answer))
			} else {
				fmt.Fprintln(out, "Answer recorded: "+answerStyle.Render(e.Answer))
			}
			printProgress(out, e.Progress)
		case *clarifysdk.ErrorEvent:
			fmt.Fprintln(out, errorStyle.Render("Service error: "+e.Message))
		case *clarifysdk.ResultEvent:
			printContext(out, e.Context)
		}
	}

	return nil
}

// checkHealth probes the service before starting a session so connection
// problems surface as one clear message instead of a failed generate call.
func checkHealth(ctx context.Context, cfg cliConfig, opts []clarifysdk.Option) error {
	probe := clarifysdk.NewClient(opts...)
	healthy := probe.Healthy(ctx)
	if err := probe.Close(); err != nil {
		return err
	}

	if !healthy {
		return fmt.Errorf("service is not healthy at %s (is it running?)", cfg.BaseURLOrDefault())
	}

	return nil
}

// promptAnswers returns an answer source that renders each question and reads
// the selection from in. A number in range picks that option; any other
// non-empty input is submitted as a free-text answer.
func promptAnswers(scanner *bufio.Scanner, out io.Writer, total *int) clarifysdk.AnswerSource {
	index := 0

	return func(_ context.Context, q clarifysdk.Question) (string, error) {
		index++
		printQuestion(out, q, index, *total)

		for {
			fmt.Fprintf(out, "Select option (1-%d) or type an answer: ", len(q.Options))

			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", fmt.Errorf("read answer: %w", err)
				}

				return "", fmt.Errorf("input closed before question %q was answered", q.ID)
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			if n, err := strconv.Atoi(line); err == nil {
				if n >= 1 && n <= len(q.Options) {
					return q.Options[n-1], nil
				}
				fmt.Fprintln(out, errorStyle.Render("Invalid option number"))

				continue
			}

			return line, nil
		}
	}
}
