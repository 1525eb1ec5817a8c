package clarifysdk

import (
	"context"
	"iter"
)

// Client provides a stateful interface for driving one clarifying question
// session from retrieval through answering to the final aggregated context.
//
// Unlike the one-shot RunSession() function, Client hands control of the
// question/answer loop to the caller: retrieve with Generate or
// GenerateStream, submit answers one at a time with Answer, then seal the
// session with Complete and read the aggregated view with Context.
//
// Lifecycle: Clients are single-use. After Close(), create a new client with
// NewClient(). A client drives one session at a time; a fresh Generate or
// GenerateStream after a failure resets the session and starts over.
//
// Example usage:
//
//	client := NewClient(
//	    WithBaseURL("http://localhost:3000"),
//	    WithLogger(slog.Default()),
//	)
//	defer client.Close()
//
//	questions, err := client.Generate(ctx, "make me a website that runs pseudocode")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, q := range questions {
//	    progress, err := client.Answer(ctx, q.ID, q.Options[0])
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%d/%d answered\n", progress.Answered, progress.Total)
//	}
//
//	if err := client.Complete(); err != nil {
//	    log.Fatal(err)
//	}
//
//	sessionContext, err := client.Context(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Use sessionContext...
type Client interface {
	// Healthy reports whether the service is reachable and healthy.
	// It never returns an error: connection failures map to false.
	Healthy(ctx context.Context) bool

	// Generate retrieves the full question set for a task in one batch
	// request and activates the session. Returns the ordered questions.
	// Fails with ErrSessionActive if a session is already active and
	// ErrRetrievalInProgress if a retrieval is already running.
	Generate(ctx context.Context, task string) ([]Question, error)

	// GenerateStream retrieves questions over the incremental event stream,
	// yielding each typed event as it arrives: StartEvent, QuestionEvent per
	// question, then a terminal CompleteEvent or ErrorEvent. Errors are
	// yielded inline and stop iteration. Breaking out of the loop before the
	// terminal event cancels the retrieval.
	// The iterator is finite and cannot be restarted; call GenerateStream
	// again for a fresh attempt.
	GenerateStream(ctx context.Context, task string) iter.Seq2[Event, error]

	// Answer submits one answer for a question in the active session and
	// returns the service-reported progress. Fails with UnknownQuestionError
	// before anything is sent if the question id is not in the session's
	// question set. A service-side failure leaves the session active so the
	// answer can be retried.
	Answer(ctx context.Context, questionID, answer string) (Progress, error)

	// Complete seals the active session: questions and answers freeze and
	// only reads remain. Completion is the caller's decision; the client
	// never completes a session on its own.
	Complete() error

	// Context fetches the aggregated view of the session from the service:
	// task, questions, recorded responses, and progress.
	// Only permitted while the session is active or completed.
	Context(ctx context.Context) (*SessionContext, error)

	// Sessions lists summaries of the sessions the service holds.
	// Works in any non-closed state; no session is required.
	Sessions(ctx context.Context) ([]SessionSummary, error)

	// State reports where the session is in its lifecycle.
	State() SessionState

	// SessionID returns the service-assigned session id, or "" before the
	// first successful retrieval.
	SessionID() string

	// Questions returns the session's questions in arrival order.
	Questions() []Question

	// Progress returns the latest progress snapshot. Service-reported
	// values take precedence over locally derived ones.
	Progress() Progress

	// Err returns the error that failed the session, or nil.
	Err() error

	// Close releases the client's resources, aborting any open stream.
	// After Close(), the client cannot be reused. Safe to call multiple times.
	Close() error
}

// NewClient creates a new stateful client.
//
// Configuration happens at construction:
//
//	client := NewClient(
//	    WithBaseURL("http://localhost:3000"),
//	    WithAPIKey(key),
//	    WithLogger(slog.Default()),
//	)
//	defer client.Close()
func NewClient(opts ...Option) Client {
	return newClientImpl(applyOptions(opts))
}
