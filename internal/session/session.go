// Package session tracks the lifecycle of a single clarification session.
//
// A Session moves through a fixed set of states: Uninitialized until a
// retrieval starts, Retrieving while questions are being fetched, Active once
// the full set is installed, and finally Completed or Failed. The machine
// never advances on its own; every transition is an explicit method call made
// by the client that owns it.
package session

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/clarifyhq/clarify-sdk-go/internal/errors"
	"github.com/clarifyhq/clarify-sdk-go/internal/event"
)

// State identifies where a session is in its lifecycle.
type State int

const (
	// Uninitialized means no retrieval has been started yet.
	Uninitialized State = iota

	// Retrieving means question retrieval is in flight.
	Retrieving

	// Active means the question set is installed and answers are accepted.
	Active

	// Completed means the session was explicitly completed. Answers are
	// frozen; reads remain allowed.
	Completed

	// Failed means the session hit an unrecoverable error. Only a fresh
	// Begin leaves this state.
	Failed
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Retrieving:
		return "retrieving"
	case Active:
		return "active"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the client-side state machine for one clarification session.
//
// Session is not safe for concurrent use. The owning client serializes all
// calls; wrap access in your own lock if you share one across goroutines.
type Session struct {
	log *slog.Logger

	state     State
	task      string
	sessionID string

	// questions holds the set in arrival order. ids indexes them by id for
	// duplicate detection and answer validation.
	questions []event.Question
	ids       map[string]int

	answers map[string]string

	// progress is the latest service-reported value. Until the service
	// reports one, Progress() derives a value from the local counts.
	progress     event.Progress
	progressSeen bool

	failure error
}

// NewSession creates a session in the Uninitialized state.
func NewSession(log *slog.Logger) *Session {
	return &Session{
		log:     log.With("component", "session"),
		ids:     make(map[string]int, 8),
		answers: make(map[string]string, 8),
	}
}

// Begin starts question retrieval for the given task description.
//
// Begin is allowed from Uninitialized and from Failed; beginning from Failed
// discards the failed session entirely (questions, answers, session id, and
// the stored error). Any other state rejects the call: Retrieving returns
// ErrRetrievalInProgress, Active returns ErrSessionActive, and Completed
// returns a SessionClosedError.
func (s *Session) Begin(task string) error {
	switch s.state {
	case Retrieving:
		return errors.ErrRetrievalInProgress
	case Active:
		return errors.ErrSessionActive
	case Completed:
		return &errors.SessionClosedError{SessionID: s.sessionID}
	}

	s.log.Debug("Beginning retrieval", "task_len", len(task), "from_state", s.state.String())

	s.state = Retrieving
	s.task = task
	s.sessionID = ""
	s.questions = nil
	s.ids = make(map[string]int, 8)
	s.answers = make(map[string]string, 8)
	s.progress = event.Progress{}
	s.progressSeen = false
	s.failure = nil

	return nil
}

// AddQuestion appends a question received during streaming retrieval.
// Questions keep their arrival order. A duplicate id is a protocol violation;
// the caller is expected to fail the session when one is reported.
func (s *Session) AddQuestion(q event.Question) error {
	if err := s.requireState(Retrieving); err != nil {
		return err
	}

	if _, exists := s.ids[q.ID]; exists {
		return &errors.ProtocolError{
			Reason: fmt.Sprintf("duplicate question id %q in stream", q.ID),
		}
	}

	s.ids[q.ID] = len(s.questions)
	s.questions = append(s.questions, q)

	s.log.Debug("Question added", "question_id", q.ID, "count", len(s.questions))

	return nil
}

// FinishRetrieve commits a streaming retrieval and moves the session to
// Active. declaredCount is the total the service announced at completion; any
// mismatch with the accumulated set, in either direction, fails the session.
// An empty set or an empty session id fails it too.
func (s *Session) FinishRetrieve(sessionID string, declaredCount int) error {
	if err := s.requireState(Retrieving); err != nil {
		return err
	}

	if sessionID == "" {
		return s.failProtocol("stream completed without a session id")
	}

	if len(s.questions) == 0 {
		return s.failProtocol("stream completed with no questions")
	}

	if declaredCount != len(s.questions) {
		return s.failProtocol(fmt.Sprintf(
			"question count mismatch: service declared %d, received %d",
			declaredCount, len(s.questions),
		))
	}

	s.sessionID = sessionID
	s.state = Active

	s.log.Debug("Retrieval complete", "session_id", sessionID, "questions", len(s.questions))

	return nil
}

// SetBatch installs a complete question set from a batch retrieval and moves
// the session to Active. The set is validated as a whole: an empty session
// id, an empty set, an invalid question, or a duplicate id fails the session
// and nothing is installed.
func (s *Session) SetBatch(sessionID string, questions []event.Question) error {
	if err := s.requireState(Retrieving); err != nil {
		return err
	}

	if sessionID == "" {
		return s.failProtocol("service returned an empty session id")
	}

	if len(questions) == 0 {
		return s.failProtocol("service returned no questions")
	}

	ids := make(map[string]int, len(questions))

	for i, q := range questions {
		if err := event.ValidateQuestion(q); err != nil {
			s.state = Failed
			s.failure = &errors.ProtocolError{
				Reason: "invalid question in generate response",
				Err:    err,
			}

			return s.failure
		}

		if _, exists := ids[q.ID]; exists {
			return s.failProtocol(fmt.Sprintf("duplicate question id %q in generate response", q.ID))
		}

		ids[q.ID] = i
	}

	s.sessionID = sessionID
	s.questions = slices.Clone(questions)
	s.ids = ids
	s.state = Active

	s.log.Debug("Question set installed", "session_id", sessionID, "questions", len(questions))

	return nil
}

// RecordAnswer stores the answer for a question. Only Active sessions accept
// answers. Answering the same question again overwrites the previous answer;
// it never counts twice. An unknown question id returns an
// UnknownQuestionError and leaves the session untouched.
func (s *Session) RecordAnswer(questionID, answer string) error {
	switch s.state {
	case Uninitialized, Retrieving:
		return &errors.InvalidSessionError{}
	case Completed:
		return &errors.SessionClosedError{SessionID: s.sessionID}
	case Failed:
		return &errors.SessionFailedError{Err: s.failure}
	}

	if _, known := s.ids[questionID]; !known {
		return &errors.UnknownQuestionError{QuestionID: questionID}
	}

	s.answers[questionID] = answer

	s.log.Debug("Answer recorded", "question_id", questionID, "answered", len(s.answers))

	return nil
}

// SetProgress stores the latest service-reported progress verbatim. Once set,
// Progress() returns this value instead of deriving one locally.
func (s *Session) SetProgress(p event.Progress) {
	s.progress = p
	s.progressSeen = true
}

// Complete moves an Active session to Completed. Completion is always an
// explicit external signal; the machine never completes on its own, not even
// when every question has an answer.
func (s *Session) Complete() error {
	switch s.state {
	case Uninitialized, Retrieving:
		return &errors.InvalidSessionError{}
	case Completed:
		return &errors.SessionClosedError{SessionID: s.sessionID}
	case Failed:
		return &errors.SessionFailedError{Err: s.failure}
	}

	s.state = Completed

	s.log.Debug("Session completed", "session_id", s.sessionID, "answered", len(s.answers))

	return nil
}

// Fail moves a Retrieving or Active session to Failed, retaining err as the
// stored failure. Calling Fail in any other state is a no-op; in particular
// the first failure wins when Fail is called twice.
func (s *Session) Fail(err error) {
	if s.state != Retrieving && s.state != Active {
		return
	}

	s.state = Failed
	s.failure = err

	s.log.Debug("Session failed", "session_id", s.sessionID, "error", err)
}

// CancelRetrieve aborts an in-flight retrieval, for example when the caller
// cancels its context or stops consuming the stream. If no questions arrived
// yet the session returns to Uninitialized as if nothing happened; once any
// question has been seen the partial state is unusable and the session fails
// with err. Sessions that already left Retrieving are untouched, so a
// cancellation that races completion never demotes an Active session.
func (s *Session) CancelRetrieve(err error) {
	if s.state != Retrieving {
		return
	}

	if len(s.questions) == 0 {
		s.log.Debug("Retrieval cancelled before any questions", "error", err)

		s.state = Uninitialized
		s.task = ""

		return
	}

	s.log.Debug("Retrieval cancelled mid-stream", "received", len(s.questions), "error", err)

	s.state = Failed
	s.failure = err
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// SessionID returns the service-assigned session id, or "" before the
// session becomes Active.
func (s *Session) SessionID() string {
	return s.sessionID
}

// Task returns the task description the session was begun with.
func (s *Session) Task() string {
	return s.task
}

// Questions returns a copy of the question set in arrival order.
func (s *Session) Questions() []event.Question {
	return slices.Clone(s.questions)
}

// Answers returns a copy of the recorded answers keyed by question id.
func (s *Session) Answers() map[string]string {
	return maps.Clone(s.answers)
}

// Progress returns the latest service-reported progress when one has been
// seen. Before the first report it derives a value from the local answer and
// question counts.
func (s *Session) Progress() event.Progress {
	if s.progressSeen {
		return s.progress
	}

	derived := event.Progress{
		Answered: len(s.answers),
		Total:    len(s.questions),
	}

	if derived.Total > 0 {
		derived.Percentage = float64(derived.Answered) / float64(derived.Total) * 100
	}

	return derived
}

// Err returns the stored failure for a Failed session, or nil.
func (s *Session) Err() error {
	return s.failure
}

// requireState guards the retrieval mutators, which are only legal while
// Retrieving.
func (s *Session) requireState(want State) error {
	if s.state == want {
		return nil
	}

	switch s.state {
	case Active:
		return errors.ErrSessionActive
	case Completed:
		return &errors.SessionClosedError{SessionID: s.sessionID}
	case Failed:
		return &errors.SessionFailedError{Err: s.failure}
	default:
		return &errors.InvalidSessionError{}
	}
}

// failProtocol fails the session with a ProtocolError built from reason and
// returns the error.
func (s *Session) failProtocol(reason string) error {
	err := &errors.ProtocolError{Reason: reason}

	s.state = Failed
	s.failure = err

	s.log.Debug("Session failed", "reason", reason)

	return err
}
