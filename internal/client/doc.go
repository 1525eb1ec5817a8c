// Package client implements the stateful Client for driving clarification sessions.
//
// The client package provides a session-oriented interface to the clarification
// service that maintains local session state across calls. Unlike the one-shot
// RunSession() driver, Client enables:
//   - Step-by-step control over retrieval, answering, and completion
//   - Streaming question delivery with incremental consumption
//   - Inspection of session state, progress, and stored failures
//
// The Client composes a Transport for wire access with a session state machine
// that orders operations and validates every answer locally before it reaches
// the service.
package client
