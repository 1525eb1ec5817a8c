package event

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/clarifyhq/clarify-sdk-go/internal/errors"
)

// Parse converts one raw frame into a typed Event.
//
// The logger is used for debug output about frame decoding, including
// skipped unknown labels.
//
// Malformed payloads (invalid JSON, missing required fields) fail with
// ProtocolError; the caller must treat the stream as terminated. Unknown
// labels return ErrUnknownEventType and should be skipped.
func Parse(log *slog.Logger, frame Frame) (Event, error) {
	log = log.With("component", "event_parser")

	log.Debug("Parsing frame", "event_type", frame.Name, "payload_len", len(frame.Data))

	var (
		ev  Event
		err error
	)

	switch frame.Name {
	case "start":
		ev, err = parseStart(frame.Data)
	case "question":
		ev, err = parseQuestion(frame.Data)
	case "complete":
		ev, err = parseComplete(frame.Data)
	case "error":
		ev, err = parseError(frame.Data)
	default:
		log.Debug("Skipping unknown event type", "event_type", frame.Name)

		return nil, errors.ErrUnknownEventType
	}

	if err != nil {
		return nil, &errors.ProtocolError{
			Reason:  fmt.Sprintf("decode %s frame", frame.Name),
			RawData: string(frame.Data),
			Err:     err,
		}
	}

	return ev, nil
}

// parseStart parses a StartEvent payload: {"message": "..."}.
func parseStart(data json.RawMessage) (*StartEvent, error) {
	var payload struct {
		Message *string `json:"message"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	if payload.Message == nil {
		return nil, fmt.Errorf("missing 'message' field")
	}

	return &StartEvent{Message: *payload.Message}, nil
}

// parseQuestion parses a QuestionEvent payload: the Question object itself.
func parseQuestion(data json.RawMessage) (*QuestionEvent, error) {
	var q Question
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}

	if err := ValidateQuestion(q); err != nil {
		return nil, err
	}

	return &QuestionEvent{Question: q}, nil
}

// parseComplete parses a CompleteEvent payload: {"sessionId", "questionCount"}.
func parseComplete(data json.RawMessage) (*CompleteEvent, error) {
	var payload struct {
		SessionID     string `json:"sessionId"`
		QuestionCount *int   `json:"questionCount"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	if payload.SessionID == "" {
		return nil, fmt.Errorf("missing 'sessionId' field")
	}

	if payload.QuestionCount == nil {
		return nil, fmt.Errorf("missing 'questionCount' field")
	}

	if *payload.QuestionCount < 0 {
		return nil, fmt.Errorf("negative 'questionCount': %d", *payload.QuestionCount)
	}

	return &CompleteEvent{
		SessionID:     payload.SessionID,
		QuestionCount: *payload.QuestionCount,
	}, nil
}

// parseError parses an ErrorEvent payload: {"error": "..."}, with "message"
// accepted as a fallback field name.
func parseError(data json.RawMessage) (*ErrorEvent, error) {
	var payload struct {
		Error   *string `json:"error"`
		Message *string `json:"message"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	switch {
	case payload.Error != nil:
		return &ErrorEvent{Message: *payload.Error}, nil
	case payload.Message != nil:
		return &ErrorEvent{Message: *payload.Message}, nil
	default:
		return nil, fmt.Errorf("missing 'error' field")
	}
}

// ValidateQuestion rejects questions that do not satisfy the wire contract:
// a non-empty id, non-empty text, and at least one option.
func ValidateQuestion(q Question) error {
	if q.ID == "" {
		return fmt.Errorf("question missing 'id' field")
	}

	if q.Text == "" {
		return fmt.Errorf("question %s missing 'text' field", q.ID)
	}

	if len(q.Options) == 0 {
		return fmt.Errorf("question %s has no options", q.ID)
	}

	return nil
}
