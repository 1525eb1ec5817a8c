package client

import (
	"context"
	stderrors "errors"
	"io"
	"iter"
	"log/slog"
	"sync"

	"github.com/clarifyhq/clarify-sdk-go/internal/config"
	"github.com/clarifyhq/clarify-sdk-go/internal/errors"
	"github.com/clarifyhq/clarify-sdk-go/internal/event"
	"github.com/clarifyhq/clarify-sdk-go/internal/httpapi"
	"github.com/clarifyhq/clarify-sdk-go/internal/session"
)

// Client implements the stateful clarification client.
//
// A Client drives one session at a time: retrieval opens it, answers advance
// it, and Complete freezes it. Beginning a new retrieval from a Failed session
// resets the client for another attempt. Aside from Close, which may be called
// from any goroutine, a Client is not safe for concurrent use.
type Client struct {
	log       *slog.Logger
	options   *config.Options
	transport config.Transport
	machine   *session.Session

	// Lifecycle management
	mu           sync.Mutex
	closed       bool      // Tracks if Close() has been called
	closeOnce    sync.Once // Ensures Close() only runs once
	streamCancel context.CancelFunc
}

// New creates a new client from resolved options.
//
// The transport is built immediately: the injected Transport when one is
// configured, otherwise an HTTP transport against the configured base URL.
// The returned client is ready to use; the first Generate or GenerateStream
// call opens a session.
func New(options *config.Options) *Client {
	if options == nil {
		options = &config.Options{}
	}

	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	transport := options.Transport
	if transport == nil {
		transport = httpapi.NewTransport(log, options)
	}

	return &Client{
		log:       log.With("component", "client"),
		options:   options,
		transport: transport,
		machine:   session.NewSession(log),
	}
}

// Healthy reports whether the service is reachable and answering its health
// endpoint. It never returns an error; a closed client reports false.
func (c *Client) Healthy(ctx context.Context) bool {
	if c.isClosed() {
		return false
	}

	return c.transport.Healthy(ctx)
}

// Generate retrieves the full question set for a task in one call and opens
// the session. On success the session is Active and the questions are
// returned in service order.
//
// A transport failure fails the session, except when the failure was the
// caller cancelling ctx, in which case the session returns to Uninitialized
// and can be begun again.
func (c *Client) Generate(ctx context.Context, task string) ([]event.Question, error) {
	if c.isClosed() {
		return nil, errors.ErrClientClosed
	}

	if err := c.machine.Begin(task); err != nil {
		return nil, err
	}

	c.log.Info("Generating questions", "task_len", len(task))

	sessionID, questions, err := c.transport.Generate(ctx, task)
	if err != nil {
		if ctx.Err() != nil {
			c.machine.CancelRetrieve(err)
		} else {
			c.machine.Fail(err)
		}

		return nil, err
	}

	if err := c.machine.SetBatch(sessionID, questions); err != nil {
		return nil, err
	}

	c.log.Info("Questions generated", "session_id", sessionID, "count", len(questions))

	return c.machine.Questions(), nil
}

// GenerateStream retrieves questions over the service's event stream and
// opens the session.
//
// The returned iterator yields each typed event as it arrives: a StartEvent,
// one QuestionEvent per question, and finally a CompleteEvent once the
// service commits the set, at which point the session is Active. Frames with
// unknown event types are skipped. Errors are yielded inline and end the
// iteration; breaking out early cancels the retrieval. The iterator is
// finite and cannot be restarted.
func (c *Client) GenerateStream(ctx context.Context, task string) iter.Seq2[event.Event, error] {
	return func(yield func(event.Event, error) bool) {
		if c.isClosed() {
			yield(nil, errors.ErrClientClosed)

			return
		}

		if err := c.machine.Begin(task); err != nil {
			yield(nil, err)

			return
		}

		streamCtx, cancel := context.WithCancel(ctx)
		c.setStreamCancel(cancel)

		defer func() {
			cancel()
			c.setStreamCancel(nil)
		}()

		c.log.Info("Streaming questions", "task_len", len(task))

		frames, frameErrs, err := c.transport.OpenStream(streamCtx, task)
		if err != nil {
			c.machine.CancelRetrieve(err)
			yield(nil, err)

			return
		}

		for frame := range frames {
			ev, parseErr := event.Parse(c.log, frame)
			if parseErr != nil {
				if stderrors.Is(parseErr, errors.ErrUnknownEventType) {
					c.log.Debug("Skipping unknown event type", "event_type", frame.Name)

					continue
				}

				c.machine.Fail(parseErr)
				yield(nil, parseErr)

				return
			}

			switch e := ev.(type) {
			case *event.QuestionEvent:
				if err := c.machine.AddQuestion(e.Question); err != nil {
					c.machine.Fail(err)
					yield(nil, err)

					return
				}

				if !yield(e, nil) {
					c.machine.CancelRetrieve(context.Canceled)

					return
				}

			case *event.CompleteEvent:
				if err := c.machine.FinishRetrieve(e.SessionID, e.QuestionCount); err != nil {
					yield(nil, err)

					return
				}

				c.log.Info("Questions streamed",
					"session_id", e.SessionID,
					"count", e.QuestionCount)

				// The set is committed; stop the transport reader.
				cancel()
				yield(e, nil)

				return

			case *event.ErrorEvent:
				svcErr := &errors.ServiceError{Message: e.Message}
				c.machine.Fail(svcErr)

				if !yield(e, nil) {
					return
				}

				yield(nil, svcErr)

				return

			default:
				if !yield(ev, nil) {
					c.machine.CancelRetrieve(context.Canceled)

					return
				}
			}
		}

		// The stream ended without a terminal frame. The transport reports
		// how the byte stream died; a clean EOF here still means the
		// retrieval never committed.
		streamErr, ok := <-frameErrs
		if !ok || streamErr == nil {
			streamErr = &errors.NetworkError{Op: "stream questions", Err: errors.ErrStreamInterrupted}
		}

		if ctx.Err() != nil {
			c.machine.CancelRetrieve(streamErr)
		} else {
			c.machine.Fail(streamErr)
		}

		yield(nil, streamErr)
	}
}

// Answer records an answer locally and submits it to the service.
//
// The local session validates the question id first, so an unknown id never
// reaches the wire. On success the service-reported progress is stored and
// returned verbatim. A transport failure leaves the recorded answer and the
// session state in place; the caller decides whether to resubmit.
func (c *Client) Answer(ctx context.Context, questionID, answer string) (event.Progress, error) {
	if c.isClosed() {
		return event.Progress{}, errors.ErrClientClosed
	}

	if err := c.machine.RecordAnswer(questionID, answer); err != nil {
		return event.Progress{}, err
	}

	progress, err := c.transport.SubmitAnswer(ctx, c.machine.SessionID(), questionID, answer)
	if err != nil {
		return event.Progress{}, err
	}

	c.machine.SetProgress(progress)

	c.log.Debug("Answer submitted",
		"question_id", questionID,
		"answered", progress.Answered,
		"total", progress.Total)

	return progress, nil
}

// Complete marks the session as completed. Completion is purely client-side
// and always explicit; answering every question does not complete a session
// on its own. After Complete the session rejects further answers but still
// serves reads and Context.
func (c *Client) Complete() error {
	if c.isClosed() {
		return errors.ErrClientClosed
	}

	if err := c.machine.Complete(); err != nil {
		return err
	}

	c.log.Info("Session completed", "session_id", c.machine.SessionID())

	return nil
}

// Context fetches the accumulated task context from the service. It is
// available while the session is Active and after it is Completed.
func (c *Client) Context(ctx context.Context) (*event.SessionContext, error) {
	if c.isClosed() {
		return nil, errors.ErrClientClosed
	}

	switch c.machine.State() {
	case session.Active, session.Completed:
	case session.Failed:
		return nil, &errors.SessionFailedError{Err: c.machine.Err()}
	default:
		return nil, &errors.InvalidSessionError{}
	}

	return c.transport.FetchContext(ctx, c.machine.SessionID())
}

// Sessions lists the sessions the service is tracking. The listing is
// service-wide and independent of this client's own session.
func (c *Client) Sessions(ctx context.Context) ([]event.SessionSummary, error) {
	if c.isClosed() {
		return nil, errors.ErrClientClosed
	}

	return c.transport.ListSessions(ctx)
}

// State returns the current session state.
func (c *Client) State() session.State {
	return c.machine.State()
}

// SessionID returns the service-assigned session id, or "" before the
// session becomes Active.
func (c *Client) SessionID() string {
	return c.machine.SessionID()
}

// Questions returns the retrieved question set in service order.
func (c *Client) Questions() []event.Question {
	return c.machine.Questions()
}

// Progress returns the latest service-reported progress, or a locally
// derived value before the service has reported one.
func (c *Client) Progress() event.Progress {
	return c.machine.Progress()
}

// Err returns the stored failure for a Failed session, or nil.
func (c *Client) Err() error {
	return c.machine.Err()
}

// Close shuts the client down: any open stream is cancelled and the
// transport is closed. Clients are single-use; operations after Close return
// ErrClientClosed. Close is safe to call multiple times and from any
// goroutine.
func (c *Client) Close() error {
	var err error

	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		cancel := c.streamCancel
		c.streamCancel = nil
		c.mu.Unlock()

		if cancel != nil {
			cancel()
		}

		c.log.Debug("Closing client")

		err = c.transport.Close()
	})

	return err
}

// isClosed returns true once Close has been called.
// This method is safe to call from any goroutine.
func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Client) setStreamCancel(cancel context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.streamCancel = cancel
}
