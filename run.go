package clarifysdk

import (
	"context"
	"fmt"
	"iter"
)

// RunSession drives one clarifying question session end to end and returns
// an iterator of events: questions as they are retrieved, an AnsweredEvent
// per submitted answer, and a final ResultEvent with the aggregated context.
//
// The answers source is called once per question, in question order. By
// default questions are retrieved in one batch request; WithStreamingDelivery
// switches to the incremental event stream so questions are yielded as the
// service produces them. In batch mode RunSession synthesizes a QuestionEvent
// per question and a CompleteEvent, so consumers observe the same event
// sequence in either mode.
//
// By default, logging is disabled. Use WithLogger to enable logging.
//
// Example usage:
//
//	ctx := context.Background()
//	for ev, err := range RunSession(ctx, "make me a website that runs pseudocode",
//	    FirstOption(),
//	    WithBaseURL("http://localhost:3000"),
//	) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    switch e := ev.(type) {
//	    case *QuestionEvent:
//	        fmt.Println("question:", e.Question.Text)
//	    case *AnsweredEvent:
//	        fmt.Printf("answered %s (%d/%d)\n", e.QuestionID, e.Progress.Answered, e.Progress.Total)
//	    case *ResultEvent:
//	        fmt.Println("session:", e.Context.SessionID)
//	    }
//	}
//
// Error Handling:
//
// Errors are yielded inline as the second return value and stop iteration:
// retrieval failures, a failing answer source, rejected submissions, and
// context cancellation all end the run after yielding the error. Callers
// can stop early by breaking from the loop; the session is cancelled and
// the underlying client closed.
func RunSession(
	ctx context.Context,
	task string,
	answers AnswerSource,
	opts ...Option,
) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		// Apply options
		options := applyOptions(opts)

		// Use provided logger or silent logger
		log := options.Logger
		if log == nil {
			log = NopLogger()
		}

		log = log.With("component", "run_session")
		log.Debug("Starting session run", "streaming", options.StreamingDelivery)

		if answers == nil {
			yield(nil, fmt.Errorf("nil answer source"))

			return
		}

		client := newClientImpl(options)

		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				log.Warn("Failed to close client", "error", closeErr)
			}
		}()

		// Retrieval phase
		if options.StreamingDelivery {
			for ev, err := range client.GenerateStream(ctx, task) {
				if err != nil {
					log.Error("Streaming retrieval failed", "error", err)
					yield(nil, err)

					return
				}

				if !yield(ev, nil) {
					log.Debug("Yield returned false, stopping iteration")

					return
				}
			}
		} else {
			questions, err := client.Generate(ctx, task)
			if err != nil {
				log.Error("Batch retrieval failed", "error", err)
				yield(nil, err)

				return
			}

			// Replay the batch as per-question events so consumers see the
			// same sequence as streaming delivery.
			for i := range questions {
				if !yield(&QuestionEvent{Question: questions[i]}, nil) {
					return
				}
			}

			complete := &CompleteEvent{
				SessionID:     client.SessionID(),
				QuestionCount: len(questions),
			}
			if !yield(complete, nil) {
				return
			}
		}

		log.Info("Questions retrieved",
			"session_id", client.SessionID(),
			"count", len(client.Questions()))

		// Answering phase
		for _, q := range client.Questions() {
			select {
			case <-ctx.Done():
				log.Debug("Context cancelled during answering")
				yield(nil, ctx.Err())

				return
			default:
			}

			answer, err := answers(ctx, q)
			if err != nil {
				log.Error("Answer source failed", "question_id", q.ID, "error", err)
				yield(nil, fmt.Errorf("answer question %q: %w", q.ID, err))

				return
			}

			progress, err := client.Answer(ctx, q.ID, answer)
			if err != nil {
				log.Error("Failed to submit answer", "question_id", q.ID, "error", err)
				yield(nil, err)

				return
			}

			answered := &AnsweredEvent{
				QuestionID: q.ID,
				Answer:     answer,
				Progress:   progress,
			}
			if !yield(answered, nil) {
				log.Debug("Yield returned false, stopping iteration")

				return
			}
		}

		// All questions answered: seal the session and fetch the final view.
		if err := client.Complete(); err != nil {
			yield(nil, err)

			return
		}

		sessionContext, err := client.Context(ctx)
		if err != nil {
			log.Error("Failed to fetch session context", "error", err)
			yield(nil, err)

			return
		}

		log.Info("Session run finished", "session_id", sessionContext.SessionID)

		yield(&ResultEvent{Context: sessionContext}, nil)
	}
}
