package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/clarifyhq/clarify-sdk-go/internal/config"
	"github.com/clarifyhq/clarify-sdk-go/internal/errors"
	"github.com/clarifyhq/clarify-sdk-go/internal/event"
)

const (
	// defaultUserAgent identifies the SDK when no custom User-Agent is set.
	defaultUserAgent = "clarify-sdk-go"
	// maxErrorSnippet caps how much of a non-JSON error body is carried into
	// a ServiceError message.
	maxErrorSnippet = 200
)

// HTTPTransport implements Transport against the service's REST and SSE API.
type HTTPTransport struct {
	log        *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string

	requestTimeout    time.Duration
	streamIdleTimeout time.Duration
	maxResponseBytes  int64

	mu           sync.Mutex
	closed       bool
	streams      map[int]context.CancelFunc
	nextStreamID int
}

// Compile-time verification that HTTPTransport implements the Transport interface.
var _ config.Transport = (*HTTPTransport)(nil)

// NewTransport creates an HTTP transport from the resolved options.
//
// The logger is used for operation tracking and debugging. When no custom
// http.Client is configured a zero-value client is used; per-request deadlines
// come from the transport's request timeout rather than http.Client.Timeout so
// the same client can serve both unary calls and long-lived streams.
func NewTransport(log *slog.Logger, options *config.Options) *HTTPTransport {
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &HTTPTransport{
		log:               log.With("component", "http_transport"),
		httpClient:        httpClient,
		baseURL:           strings.TrimRight(options.BaseURLOrDefault(), "/"),
		apiKey:            options.APIKey,
		userAgent:         userAgent,
		requestTimeout:    options.RequestTimeoutOrDefault(),
		streamIdleTimeout: options.StreamIdleTimeoutOrDefault(),
		maxResponseBytes:  options.MaxResponseBytesOrDefault(),
		streams:           make(map[int]context.CancelFunc, 2),
	}
}

// Healthy reports whether the service's health endpoint answered 200 OK.
//
// Healthy never returns an error: connection failures, timeouts, and non-200
// statuses all report false.
func (t *HTTPTransport) Healthy(ctx context.Context) bool {
	if err := t.checkOpen(); err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, t.requestTimeout)
	defer cancel()

	req, err := t.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		t.log.Debug("Health check failed", "error", err)

		return false
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.log.Debug("Health check failed", "error", err)

		return false
	}

	defer func() { _ = resp.Body.Close() }()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, t.maxResponseBytes))

	t.log.Debug("Health check completed", "status", resp.StatusCode)

	return resp.StatusCode == http.StatusOK
}

// Generate requests the full question set for a task in one call.
// It returns the service-assigned session id and the questions in service
// order; content validation is the caller's responsibility.
func (t *HTTPTransport) Generate(ctx context.Context, task string) (string, []event.Question, error) {
	if err := t.checkOpen(); err != nil {
		return "", nil, err
	}

	request := map[string]string{"taskDescription": task}

	var response struct {
		SessionID string           `json:"sessionId"`
		Questions []event.Question `json:"questions"`
	}

	if err := t.doJSON(ctx, "generate questions", http.MethodPost, "/api/generate", "", request, &response); err != nil {
		return "", nil, err
	}

	return response.SessionID, response.Questions, nil
}

// SubmitAnswer submits one answer and returns the service-reported progress.
// A 404 from the service maps to InvalidSessionError for the given session.
func (t *HTTPTransport) SubmitAnswer(ctx context.Context, sessionID, questionID, answer string) (event.Progress, error) {
	if err := t.checkOpen(); err != nil {
		return event.Progress{}, err
	}

	request := map[string]string{
		"sessionId":  sessionID,
		"questionId": questionID,
		"answer":     answer,
	}

	var response struct {
		Progress event.Progress `json:"progress"`
	}

	if err := t.doJSON(ctx, "submit answer", http.MethodPost, "/api/answer", sessionID, request, &response); err != nil {
		return event.Progress{}, err
	}

	return response.Progress, nil
}

// FetchContext retrieves the accumulated task context for a session.
func (t *HTTPTransport) FetchContext(ctx context.Context, sessionID string) (*event.SessionContext, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}

	var response event.SessionContext

	path := "/api/context/" + url.PathEscape(sessionID)

	if err := t.doJSON(ctx, "fetch context", http.MethodGet, path, sessionID, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// ListSessions retrieves summaries of the sessions the service is tracking.
func (t *HTTPTransport) ListSessions(ctx context.Context) ([]event.SessionSummary, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}

	var response struct {
		Sessions []event.SessionSummary `json:"sessions"`
	}

	if err := t.doJSON(ctx, "list sessions", http.MethodGet, "/api/sessions", "", nil, &response); err != nil {
		return nil, err
	}

	return response.Sessions, nil
}

// Close shuts the transport down. Any open stream is cancelled and idle
// connections are released. It's safe to call Close multiple times; all
// operations after Close return ErrClientClosed.
func (t *HTTPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true

	for id, cancel := range t.streams {
		cancel()
		delete(t.streams, id)
	}

	t.httpClient.CloseIdleConnections()

	t.log.Debug("Transport closed")

	return nil
}

// doJSON executes one unary request under the transport's request timeout and
// decodes a 2xx JSON response into out. sessionID marks requests where a 404
// means the service dropped the session; pass "" for sessionless endpoints.
func (t *HTTPTransport) doJSON(
	ctx context.Context,
	op, method, path, sessionID string,
	body, out any,
) error {
	ctx, cancel := context.WithTimeout(ctx, t.requestTimeout)
	defer cancel()

	req, err := t.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	t.log.Debug("Sending request",
		"op", op,
		"method", method,
		"path", path,
		"request_id", req.Header.Get("X-Request-ID"))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.log.Debug("Request failed", "op", op, "error", err)

		return &errors.NetworkError{Op: op, Err: err}
	}

	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxResponseBytes))
	if err != nil {
		return &errors.NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.log.Debug("Request rejected", "op", op, "status", resp.StatusCode)

		return t.statusError(sessionID, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &errors.ProtocolError{
			Reason:  fmt.Sprintf("decode %s response", op),
			RawData: string(data),
			Err:     err,
		}
	}

	return nil
}

// newRequest builds a request with the standard header set: JSON accept and
// content types, the configured User-Agent, a ULID request id for log
// correlation, and a bearer credential only when one is configured.
func (t *HTTPTransport) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("X-Request-ID", generateRequestID())

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	return req, nil
}

// statusError maps a non-2xx response to a typed error. A 404 on a request
// scoped to a session means the service no longer knows that session; every
// other status becomes a ServiceError carrying the body's error message.
func (t *HTTPTransport) statusError(sessionID string, status int, body []byte) error {
	if status == http.StatusNotFound && sessionID != "" {
		return &errors.InvalidSessionError{SessionID: sessionID}
	}

	return &errors.ServiceError{
		StatusCode: status,
		Message:    errorMessage(body),
	}
}

// errorMessage extracts the "error" or "message" field from a JSON error
// body. Non-JSON bodies are carried as a truncated snippet.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}

		if payload.Message != "" {
			return payload.Message
		}
	}

	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorSnippet {
		snippet = snippet[:maxErrorSnippet]
	}

	return snippet
}

// checkOpen reports ErrClientClosed once Close has been called.
func (t *HTTPTransport) checkOpen() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.ErrClientClosed
	}

	return nil
}

// registerStream records the cancel function for an open stream so Close can
// tear it down. It refuses new streams on a closed transport.
func (t *HTTPTransport) registerStream(cancel context.CancelFunc) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, errors.ErrClientClosed
	}

	id := t.nextStreamID
	t.nextStreamID++
	t.streams[id] = cancel

	return id, nil
}

func (t *HTTPTransport) deregisterStream(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.streams, id)
}

// generateRequestID creates a unique request ID using ULID.
func generateRequestID() string {
	return ulid.Make().String()
}
