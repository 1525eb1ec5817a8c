// Package clarifysdk provides a Go SDK for the clarifying question service.
//
// The service turns a one-line task description into a set of clarifying
// questions; this SDK drives a session against it: retrieve the questions
// (in one batch or incrementally over an event stream), collect answers,
// and fetch the final aggregated context. It supports both a one-shot
// driver and a stateful client for step-by-step control.
//
// # Basic Usage
//
// For a complete session in one call, use the RunSession function:
//
//	ctx := context.Background()
//	for ev, err := range clarifysdk.RunSession(ctx, "make me a website that runs pseudocode",
//	    clarifysdk.FirstOption(),
//	    clarifysdk.WithBaseURL("http://localhost:3000"),
//	) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    switch e := ev.(type) {
//	    case *clarifysdk.QuestionEvent:
//	        fmt.Println("question:", e.Question.Text)
//	    case *clarifysdk.AnsweredEvent:
//	        fmt.Printf("answered %d/%d\n", e.Progress.Answered, e.Progress.Total)
//	    case *clarifysdk.ResultEvent:
//	        fmt.Println("done:", e.Context.SessionID)
//	    }
//	}
//
// The answer source decides how questions get answered: FirstOption picks
// each question's first option, AnswersFromMap looks answers up by question
// id, and any custom func can prompt a human or consult other systems.
//
// # Stateful Sessions
//
// For step-by-step control, use NewClient or the WithSession helper:
//
//	// Using WithSession for automatic lifecycle management
//	err := clarifysdk.WithSession(ctx, func(c clarifysdk.Client) error {
//	    questions, err := c.Generate(ctx, task)
//	    if err != nil {
//	        return err
//	    }
//	    for _, q := range questions {
//	        if _, err := c.Answer(ctx, q.ID, q.Options[0]); err != nil {
//	            return err
//	        }
//	    }
//	    return c.Complete()
//	},
//	    clarifysdk.WithLogger(slog.Default()),
//	)
//
//	// Or using NewClient directly for more control
//	client := clarifysdk.NewClient(
//	    clarifysdk.WithBaseURL("http://localhost:3000"),
//	)
//	defer client.Close()
//
// Clients drive one session at a time and are single-use after Close.
//
// # Streaming Delivery
//
// Questions can be retrieved incrementally instead of in one batch. With
// a client, range over GenerateStream; with RunSession, pass
// WithStreamingDelivery(true). Either way questions arrive as typed
// events in service order, ending with a CompleteEvent or ErrorEvent.
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	client := clarifysdk.NewClient(clarifysdk.WithLogger(logger))
//
// # Error Handling
//
// The SDK provides typed errors for different failure scenarios:
//
//	questions, err := client.Generate(ctx, task)
//	if err != nil {
//	    if netErr, ok := errors.AsType[*clarifysdk.NetworkError](err); ok {
//	        log.Fatalf("service unreachable during %s: %v", netErr.Op, netErr.Err)
//	    }
//	    if svcErr, ok := errors.AsType[*clarifysdk.ServiceError](err); ok {
//	        log.Fatalf("service rejected request (status %d): %s", svcErr.StatusCode, svcErr.Message)
//	    }
//	    log.Fatal(err)
//	}
//
// Sessions that fail retain their error: State() reports SessionStateFailed
// and Err() returns the cause. A fresh Generate or GenerateStream resets
// the session and starts over.
package clarifysdk
