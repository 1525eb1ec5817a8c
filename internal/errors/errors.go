package errors

import (
	"errors"
	"fmt"
)

// ClarifyError is the base interface for all SDK errors.
type ClarifyError interface {
	error
	IsClarifyError() bool
}

// Compile-time verification that all error types implement ClarifyError.
var (
	_ ClarifyError = (*NetworkError)(nil)
	_ ClarifyError = (*ServiceError)(nil)
	_ ClarifyError = (*ProtocolError)(nil)
	_ ClarifyError = (*InvalidSessionError)(nil)
	_ ClarifyError = (*UnknownQuestionError)(nil)
	_ ClarifyError = (*SessionClosedError)(nil)
	_ ClarifyError = (*SessionFailedError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.New("client closed: clients are single-use, create a new one with NewClient()")

	// ErrSessionActive indicates a session is already active on this client.
	ErrSessionActive = errors.New("session already active: a client drives one session at a time")

	// ErrRetrievalInProgress indicates a question retrieval is already running.
	ErrRetrievalInProgress = errors.New("retrieval already in progress")

	// ErrStreamIdle indicates no stream activity within the idle timeout.
	ErrStreamIdle = errors.New("stream idle timeout")

	// ErrStreamInterrupted indicates the stream closed before a complete or error frame.
	ErrStreamInterrupted = errors.New("stream closed before completion")

	// ErrUnknownEventType indicates the frame label is not recognized by the SDK.
	// Callers should skip these frames rather than treating them as fatal.
	ErrUnknownEventType = errors.New("unknown event type")
)

// NetworkError indicates a connection or transport failure: the service could
// not be reached, the stream was interrupted, or a timeout fired.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsClarifyError implements ClarifyError.
func (e *NetworkError) IsClarifyError() bool { return true }

// ServiceError indicates the service reported a failure: a non-2xx response
// (StatusCode > 0) or an explicit error frame on the event stream (StatusCode 0).
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("service error (status %d): %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("service error: %s", e.Message)
}

// IsClarifyError implements ClarifyError.
func (e *ServiceError) IsClarifyError() bool { return true }

// ProtocolError indicates malformed or internally inconsistent stream data,
// such as an undecodable frame payload or a question-count mismatch.
// RawData preserves the offending payload when one exists.
type ProtocolError struct {
	Reason  string
	RawData string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}

	return fmt.Sprintf("protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// IsClarifyError implements ClarifyError.
func (e *ProtocolError) IsClarifyError() bool { return true }

// InvalidSessionError indicates an operation that requires a session was made
// without one (empty SessionID), or the service reported the session unknown.
type InvalidSessionError struct {
	SessionID string
}

func (e *InvalidSessionError) Error() string {
	if e.SessionID == "" {
		return "no active session"
	}

	return fmt.Sprintf("unknown session: %s", e.SessionID)
}

// IsClarifyError implements ClarifyError.
func (e *InvalidSessionError) IsClarifyError() bool { return true }

// UnknownQuestionError indicates an answer was recorded for a question id
// that is not part of the session's question set.
type UnknownQuestionError struct {
	QuestionID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown question: %s", e.QuestionID)
}

// IsClarifyError implements ClarifyError.
func (e *UnknownQuestionError) IsClarifyError() bool { return true }

// SessionClosedError indicates a mutating operation on a completed session.
type SessionClosedError struct {
	SessionID string
}

func (e *SessionClosedError) Error() string {
	return fmt.Sprintf("session closed: %s", e.SessionID)
}

// IsClarifyError implements ClarifyError.
func (e *SessionClosedError) IsClarifyError() bool { return true }

// SessionFailedError indicates an operation on a failed session.
// It wraps the failure that moved the session into the failed state.
type SessionFailedError struct {
	Err error
}

func (e *SessionFailedError) Error() string {
	return fmt.Sprintf("session failed: %v", e.Err)
}

func (e *SessionFailedError) Unwrap() error {
	return e.Err
}

// IsClarifyError implements ClarifyError.
func (e *SessionFailedError) IsClarifyError() bool { return true }
