// Package event defines the typed events and wire shapes of the clarifying
// question protocol, and the decoder that turns raw stream frames into them.
package event

import "encoding/json"

// Question is one clarifying question produced by the service.
// Questions are created remotely and never mutated by the client.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Options  []string `json:"options"`
}

// Progress is the answered/total/percentage snapshot for a session.
// When it comes from a service response it is authoritative and stored verbatim.
type Progress struct {
	Answered   int     `json:"answered"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// SessionContext is the aggregated view of a session: the task, the question
// set, the recorded responses keyed by question id, and the latest progress.
type SessionContext struct {
	TaskDescription string            `json:"taskDescription"`
	SessionID       string            `json:"sessionId"`
	Questions       []Question        `json:"questions"`
	Responses       map[string]string `json:"responses"`
	Progress        Progress          `json:"progress"`
}

// SessionSummary is one element of the session listing.
type SessionSummary struct {
	SessionID       string   `json:"sessionId"`
	TaskDescription string   `json:"taskDescription"`
	Progress        Progress `json:"progress"`
}

// Frame is one labeled unit of the streamed event feed: the event label and
// its raw JSON payload, exactly as delimited by the transport.
type Frame struct {
	Name string
	Data json.RawMessage
}

// Event represents any event in a question session.
// Use type assertion or type switch to determine the concrete type.
type Event interface {
	EventType() string
}

// Compile-time verification that all event types implement Event.
var (
	_ Event = (*StartEvent)(nil)
	_ Event = (*QuestionEvent)(nil)
	_ Event = (*CompleteEvent)(nil)
	_ Event = (*ErrorEvent)(nil)
	_ Event = (*AnsweredEvent)(nil)
	_ Event = (*ResultEvent)(nil)
)

// StartEvent announces that the service has opened the stream and begun
// generating questions. Informational; it does not change session state.
type StartEvent struct {
	Message string `json:"message"`
}

// EventType implements the Event interface.
func (e *StartEvent) EventType() string { return "start" }

// QuestionEvent delivers one question. Arrival order is significant: it
// defines the per-session question ordering used for answering and display.
type QuestionEvent struct {
	Question Question
}

// EventType implements the Event interface.
func (e *QuestionEvent) EventType() string { return "question" }

// CompleteEvent terminates a successful stream. It finalizes the session
// identifier and declares how many questions the service emitted.
type CompleteEvent struct {
	SessionID     string `json:"sessionId"`
	QuestionCount int    `json:"questionCount"`
}

// EventType implements the Event interface.
func (e *CompleteEvent) EventType() string { return "complete" }

// ErrorEvent terminates a stream with a service-reported failure.
type ErrorEvent struct {
	Message string `json:"error"`
}

// EventType implements the Event interface.
func (e *ErrorEvent) EventType() string { return "error" }

// AnsweredEvent reports that an answer was submitted and accepted.
// Progress is the service-reported value, never recomputed locally.
type AnsweredEvent struct {
	QuestionID string
	Answer     string
	Progress   Progress
}

// EventType implements the Event interface.
func (e *AnsweredEvent) EventType() string { return "answered" }

// ResultEvent carries the final aggregated context at the end of a session run.
type ResultEvent struct {
	Context *SessionContext
}

// EventType implements the Event interface.
func (e *ResultEvent) EventType() string { return "result" }
