package clarifysdk

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNetworkError_Creation tests NetworkError creation and formatting.
func TestNetworkError_Creation(t *testing.T) {
	innerErr := fmt.Errorf("connection refused")
	err := &NetworkError{
		Op:  "generate",
		Err: innerErr,
	}

	require.Error(t, err)
	require.Contains(t, err.Error(), "network error during generate")
	require.Contains(t, err.Error(), "connection refused")
}

// TestNetworkError_Unwrap tests that the underlying error can be unwrapped.
func TestNetworkError_Unwrap(t *testing.T) {
	innerErr := fmt.Errorf("dial tcp: timeout")
	err := &NetworkError{
		Op:  "stream",
		Err: innerErr,
	}

	require.ErrorIs(t, err, innerErr)
}

// TestServiceError_WithStatusCode tests ServiceError with an HTTP status.
func TestServiceError_WithStatusCode(t *testing.T) {
	err := &ServiceError{
		StatusCode: 503,
		Message:    "generation backend unavailable",
	}

	require.Error(t, err)
	require.Contains(t, err.Error(), "status 503")
	require.Contains(t, err.Error(), "generation backend unavailable")
}

// TestServiceError_FromStream tests ServiceError from an error frame, which
// carries no HTTP status.
func TestServiceError_FromStream(t *testing.T) {
	err := &ServiceError{
		Message: "generation failed",
	}

	require.Error(t, err)
	require.Contains(t, err.Error(), "service error")
	require.Contains(t, err.Error(), "generation failed")
	require.NotContains(t, err.Error(), "status")
}

// TestProtocolError_Creation tests ProtocolError creation and formatting.
func TestProtocolError_Creation(t *testing.T) {
	innerErr := fmt.Errorf("unexpected end of JSON input")
	err := &ProtocolError{
		Reason:  "decode question frame",
		RawData: `{"id": "q_1", `,
		Err:     innerErr,
	}

	require.Error(t, err)
	require.Contains(t, err.Error(), "protocol error")
	require.Contains(t, err.Error(), "decode question frame")
	require.Contains(t, err.Error(), "unexpected end of JSON input")
}

// TestProtocolError_PreservesRawData tests that the offending payload is preserved.
func TestProtocolError_PreservesRawData(t *testing.T) {
	rawData := `{"type": "question", invalid}`
	err := &ProtocolError{
		Reason:  "decode question frame",
		RawData: rawData,
		Err:     fmt.Errorf("invalid character"),
	}

	require.Equal(t, rawData, err.RawData)
	require.ErrorIs(t, err, err.Err)
}

// TestInvalidSessionError_NoSession tests the no-active-session formatting.
func TestInvalidSessionError_NoSession(t *testing.T) {
	err := &InvalidSessionError{}

	require.Error(t, err)
	require.Contains(t, err.Error(), "no active session")
}

// TestInvalidSessionError_UnknownSession tests the unknown-session formatting.
func TestInvalidSessionError_UnknownSession(t *testing.T) {
	err := &InvalidSessionError{SessionID: "sess_gone"}

	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown session")
	require.Contains(t, err.Error(), "sess_gone")
}

// TestUnknownQuestionError_Creation tests UnknownQuestionError creation and formatting.
func TestUnknownQuestionError_Creation(t *testing.T) {
	err := &UnknownQuestionError{QuestionID: "q_99"}

	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown question")
	require.Contains(t, err.Error(), "q_99")
}

// TestSessionClosedError_Creation tests SessionClosedError creation and formatting.
func TestSessionClosedError_Creation(t *testing.T) {
	err := &SessionClosedError{SessionID: "sess_done"}

	require.Error(t, err)
	require.Contains(t, err.Error(), "session closed")
	require.Contains(t, err.Error(), "sess_done")
}

// TestSessionFailedError_Creation tests SessionFailedError creation and formatting.
func TestSessionFailedError_Creation(t *testing.T) {
	cause := &ServiceError{StatusCode: 500, Message: "boom"}
	err := &SessionFailedError{Err: cause}

	require.Error(t, err)
	require.Contains(t, err.Error(), "session failed")
	require.Contains(t, err.Error(), "boom")
}

// TestSessionFailedError_Unwrap tests that the failure cause can be unwrapped.
func TestSessionFailedError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("stream closed before completion")
	err := &SessionFailedError{Err: cause}

	require.ErrorIs(t, err, cause)
}
