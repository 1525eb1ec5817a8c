package clarifysdk

import (
	"context"
	"iter"

	"github.com/clarifyhq/clarify-sdk-go/internal/client"
	"github.com/clarifyhq/clarify-sdk-go/internal/config"
)

// clientWrapper wraps the internal client to adapt it to the public interface.
type clientWrapper struct {
	impl *client.Client
}

// Compile-time check that *clientWrapper implements the Client interface.
var _ Client = (*clientWrapper)(nil)

// newClientImpl creates the internal client implementation.
func newClientImpl(options *config.Options) Client {
	return &clientWrapper{impl: client.New(options)}
}

// Healthy reports whether the service is reachable and healthy.
func (c *clientWrapper) Healthy(ctx context.Context) bool {
	return c.impl.Healthy(ctx)
}

// Generate retrieves the full question set in one batch request.
func (c *clientWrapper) Generate(ctx context.Context, task string) ([]Question, error) {
	return c.impl.Generate(ctx, task)
}

// GenerateStream retrieves questions over the incremental event stream.
func (c *clientWrapper) GenerateStream(ctx context.Context, task string) iter.Seq2[Event, error] {
	return c.impl.GenerateStream(ctx, task)
}

// Answer submits one answer and returns the service-reported progress.
func (c *clientWrapper) Answer(ctx context.Context, questionID, answer string) (Progress, error) {
	return c.impl.Answer(ctx, questionID, answer)
}

// Complete seals the active session.
func (c *clientWrapper) Complete() error {
	return c.impl.Complete()
}

// Context fetches the aggregated session view from the service.
func (c *clientWrapper) Context(ctx context.Context) (*SessionContext, error) {
	return c.impl.Context(ctx)
}

// Sessions lists summaries of the sessions the service holds.
func (c *clientWrapper) Sessions(ctx context.Context) ([]SessionSummary, error) {
	return c.impl.Sessions(ctx)
}

// State reports where the session is in its lifecycle.
func (c *clientWrapper) State() SessionState {
	return c.impl.State()
}

// SessionID returns the service-assigned session id.
func (c *clientWrapper) SessionID() string {
	return c.impl.SessionID()
}

// Questions returns the session's questions in arrival order.
func (c *clientWrapper) Questions() []Question {
	return c.impl.Questions()
}

// Progress returns the latest progress snapshot.
func (c *clientWrapper) Progress() Progress {
	return c.impl.Progress()
}

// Err returns the error that failed the session, or nil.
func (c *clientWrapper) Err() error {
	return c.impl.Err()
}

// Close releases the client's resources.
func (c *clientWrapper) Close() error {
	return c.impl.Close()
}
