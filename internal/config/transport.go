// Package config provides configuration types for the clarify SDK.
package config

import (
	"context"

	"github.com/clarifyhq/clarify-sdk-go/internal/event"
)

// Transport defines the interface for talking to the clarifying question
// service. Implement this to provide custom transports for testing, mocking,
// or alternative communication methods.
//
// The default implementation is the HTTP transport in internal/httpapi.
// Custom transports can be injected via Options.Transport.
type Transport interface {
	// Healthy reports whether the service is reachable and healthy.
	// It never returns an error: connection failures map to false.
	Healthy(ctx context.Context) bool

	// Generate requests the full question set for a task in one batch.
	// Returns the service-assigned session id and the ordered questions.
	// Fails with ServiceError on a non-2xx response and NetworkError on
	// connection failure.
	Generate(ctx context.Context, task string) (string, []event.Question, error)

	// OpenStream starts an incremental question stream for a task and returns
	// channels for receiving frames and errors. The frame channel yields raw
	// labeled frames in arrival order and is closed when reading stops; the
	// buffered error channel carries the terminal read error, if any.
	// The caller closes the stream by cancelling ctx and draining the frame
	// channel. Fails with NetworkError if the connection cannot be established
	// and ServiceError on a non-2xx response.
	OpenStream(ctx context.Context, task string) (<-chan event.Frame, <-chan error, error)

	// SubmitAnswer records one answer for a question in a session and returns
	// the service-reported progress. Fails with InvalidSessionError when the
	// service does not know the session and ServiceError on other non-2xx
	// responses.
	SubmitAnswer(ctx context.Context, sessionID, questionID, answer string) (event.Progress, error)

	// FetchContext retrieves the aggregated context for a session.
	// Fails with InvalidSessionError when the session is unknown.
	FetchContext(ctx context.Context, sessionID string) (*event.SessionContext, error)

	// ListSessions retrieves summaries of the sessions the service holds.
	ListSessions(ctx context.Context) ([]event.SessionSummary, error)

	// Close releases transport resources, aborting any open stream.
	// It's safe to call Close multiple times.
	Close() error
}
