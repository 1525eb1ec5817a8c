package clarifysdk

import "github.com/clarifyhq/clarify-sdk-go/internal/errors"

// Re-export error types from internal package

// ClarifyError is the base interface for all SDK errors.
type ClarifyError = errors.ClarifyError

// NetworkError indicates a connection or transport failure: the service
// could not be reached, the stream was interrupted, or a timeout fired.
type NetworkError = errors.NetworkError

// ServiceError indicates the service reported a failure: a non-2xx response
// or an explicit error event on the question stream.
type ServiceError = errors.ServiceError

// ProtocolError indicates malformed or inconsistent data from the service.
type ProtocolError = errors.ProtocolError

// InvalidSessionError indicates an operation without a session, or a
// session the service does not know.
type InvalidSessionError = errors.InvalidSessionError

// UnknownQuestionError indicates an answer for a question id that is not
// part of the session's question set.
type UnknownQuestionError = errors.UnknownQuestionError

// SessionClosedError indicates a mutating operation on a completed session.
type SessionClosedError = errors.SessionClosedError

// SessionFailedError indicates an operation on a failed session.
// It wraps the failure that moved the session into the failed state.
type SessionFailedError = errors.SessionFailedError

// Re-export sentinel errors from internal package.
var (
	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.ErrClientClosed

	// ErrSessionActive indicates a session is already active on this client.
	ErrSessionActive = errors.ErrSessionActive

	// ErrRetrievalInProgress indicates a question retrieval is already running.
	ErrRetrievalInProgress = errors.ErrRetrievalInProgress

	// ErrStreamIdle indicates no stream activity within the idle timeout.
	ErrStreamIdle = errors.ErrStreamIdle

	// ErrStreamInterrupted indicates the stream closed before a complete or
	// error event.
	ErrStreamInterrupted = errors.ErrStreamInterrupted

	// ErrUnknownEventType indicates a stream frame label the SDK does not
	// recognize. These frames are skipped, never fatal.
	ErrUnknownEventType = errors.ErrUnknownEventType
)
