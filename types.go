package clarifysdk

import (
	"github.com/clarifyhq/clarify-sdk-go/internal/config"
	"github.com/clarifyhq/clarify-sdk-go/internal/event"
	"github.com/clarifyhq/clarify-sdk-go/internal/session"
)

// Re-export types from internal packages

// ===== Options and Configuration =====

// ClientOptions configures the behavior of a clarify client.
// Most callers use the With* functional options instead of building
// this struct directly.
type ClientOptions = config.Options

const (
	// DefaultBaseURL is the service address used when none is configured.
	DefaultBaseURL = config.DefaultBaseURL

	// DefaultRequestTimeout bounds each unary request/response call.
	DefaultRequestTimeout = config.DefaultRequestTimeout

	// DefaultStreamIdleTimeout bounds the wait for the next stream frame.
	DefaultStreamIdleTimeout = config.DefaultStreamIdleTimeout

	// DefaultMaxResponseBytes caps how much of a response body is read.
	DefaultMaxResponseBytes = config.DefaultMaxResponseBytes
)

// ===== Questions and Progress =====

// Question is one clarifying question produced by the service.
// Questions are created remotely and received read-only.
type Question = event.Question

// Progress is the answered/total/percentage snapshot for a session.
type Progress = event.Progress

// SessionContext is the aggregated view of a session: the task, the
// question set, the recorded responses, and the latest progress.
type SessionContext = event.SessionContext

// SessionSummary is one element of the session listing.
type SessionSummary = event.SessionSummary

// ===== Events =====

// Event represents any event in a question session.
// Use type assertion or type switch to determine the concrete type.
type Event = event.Event

// StartEvent announces that the service has begun generating questions.
type StartEvent = event.StartEvent

// QuestionEvent delivers one question in arrival order.
type QuestionEvent = event.QuestionEvent

// CompleteEvent terminates a successful question stream.
type CompleteEvent = event.CompleteEvent

// ErrorEvent terminates a stream with a service-reported failure.
type ErrorEvent = event.ErrorEvent

// AnsweredEvent reports that an answer was submitted and accepted.
type AnsweredEvent = event.AnsweredEvent

// ResultEvent carries the final aggregated context of a session run.
type ResultEvent = event.ResultEvent

// Frame is one labeled unit of the raw event feed, before decoding.
// Only custom Transport implementations need to produce these.
type Frame = event.Frame

// ===== Session State =====

// SessionState identifies where a session is in its lifecycle.
type SessionState = session.State

const (
	// SessionStateUninitialized means no retrieval has been started yet.
	SessionStateUninitialized = session.Uninitialized

	// SessionStateRetrieving means question retrieval is in flight.
	SessionStateRetrieving = session.Retrieving

	// SessionStateActive means questions are installed and answers are accepted.
	SessionStateActive = session.Active

	// SessionStateCompleted means the session is frozen; only reads remain.
	SessionStateCompleted = session.Completed

	// SessionStateFailed means the session failed; the error is retained.
	SessionStateFailed = session.Failed
)
