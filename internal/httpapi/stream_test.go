package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clarifyhq/clarify-sdk-go/internal/config"
	sdkerrors "github.com/clarifyhq/clarify-sdk-go/internal/errors"
	"github.com/clarifyhq/clarify-sdk-go/internal/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFrame writes one SSE frame and flushes it to the client.
func writeFrame(w http.ResponseWriter, name, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// startSSE sets the stream headers and flushes them.
func startSSE(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// requireNoStreamError asserts the error channel closed without delivering
// anything.
func requireNoStreamError(t *testing.T, errs <-chan error) {
	t.Helper()

	streamErr, ok := <-errs
	require.False(t, ok, "Expected no stream error, got %v", streamErr)
}

func TestOpenStream_DeliversFramesInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stream", r.URL.Path)
		assert.Equal(t, "make me a website", r.URL.Query().Get("taskDescription"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		startSSE(w)
		writeFrame(w, "start", `{"message":"Generating questions..."}`)
		writeFrame(w, "question", `{"id":"q_1","text":"What platform?","options":["Web","Mobile"]}`)
		writeFrame(w, "question", `{"id":"q_2","text":"Persist data?","options":["Yes","No"]}`)
		writeFrame(w, "complete", `{"sessionId":"sess_123","questionCount":2}`)
	}))
	defer server.Close()

	tr := testTransport(t, server.URL)

	frames, errs, err := tr.OpenStream(t.Context(), "make me a website")
	require.NoError(t, err)

	var got []event.Frame
	for frame := range frames {
		got = append(got, frame)
	}

	require.Len(t, got, 4)
	assert.Equal(t, "start", got[0].Name)
	assert.Equal(t, "question", got[1].Name)
	assert.Equal(t, "question", got[2].Name)
	assert.Equal(t, "complete", got[3].Name)
	assert.JSONEq(t, `{"sessionId":"sess_123","questionCount":2}`, string(got[3].Data))

	requireNoStreamError(t, errs)
}

func TestOpenStream_ServerDisconnectWithoutTerminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startSSE(w)
		writeFrame(w, "start", `{"message":"Generating questions..."}`)
		writeFrame(w, "question", `{"id":"q_1","text":"What platform?","options":["Web"]}`)
		// Connection drops here without a complete frame.
	}))
	defer server.Close()

	tr := testTransport(t, server.URL)

	frames, errs, err := tr.OpenStream(t.Context(), "task")
	require.NoError(t, err)

	count := 0
	for range frames {
		count++
	}

	assert.Equal(t, 2, count)

	// The transport reports a clean byte-stream end; spotting the missing
	// terminal frame is the consumer's job.
	requireNoStreamError(t, errs)
}

func TestOpenStream_IdleTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startSSE(w)
		writeFrame(w, "start", `{"message":"Generating questions..."}`)

		// Go silent until the client gives up.
		<-r.Context().Done()
	}))
	defer server.Close()

	tr := NewTransport(slog.Default(), &config.Options{
		BaseURL:           server.URL,
		StreamIdleTimeout: 100 * time.Millisecond,
	})
	defer func() { _ = tr.Close() }()

	frames, errs, err := tr.OpenStream(t.Context(), "task")
	require.NoError(t, err)

	for range frames {
	}

	streamErr, ok := <-errs
	require.True(t, ok, "Expected an idle timeout error")
	require.ErrorIs(t, streamErr, sdkerrors.ErrStreamIdle)

	netErr, isNet := errors.AsType[*sdkerrors.NetworkError](streamErr)
	require.True(t, isNet, "Expected the idle timeout wrapped in a NetworkError, got %v", streamErr)
	assert.Equal(t, "stream questions", netErr.Op)
}

func TestOpenStream_KeepAlivesResetIdleWatchdog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startSSE(w)

		flusher := w.(http.Flusher)

		// Comment-only traffic for longer than the idle window. Each line
		// must reset the watchdog or this stream dies early.
		for range 8 {
			time.Sleep(100 * time.Millisecond)
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}

		writeFrame(w, "question", `{"id":"q_1","text":"What platform?","options":["Web"]}`)
	}))
	defer server.Close()

	tr := NewTransport(slog.Default(), &config.Options{
		BaseURL:           server.URL,
		StreamIdleTimeout: 300 * time.Millisecond,
	})
	defer func() { _ = tr.Close() }()

	frames, errs, err := tr.OpenStream(t.Context(), "task")
	require.NoError(t, err)

	var got []event.Frame
	for frame := range frames {
		got = append(got, frame)
	}

	require.Len(t, got, 1, "Expected keep-alives to hold the stream open until the frame arrived")
	assert.Equal(t, "question", got[0].Name)

	requireNoStreamError(t, errs)
}

func TestOpenStream_CallerCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startSSE(w)
		writeFrame(w, "question", `{"id":"q_1","text":"What platform?","options":["Web"]}`)

		<-r.Context().Done()
	}))
	defer server.Close()

	tr := testTransport(t, server.URL)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	frames, errs, err := tr.OpenStream(ctx, "task")
	require.NoError(t, err)

	first, ok := <-frames
	require.True(t, ok)
	require.Equal(t, "question", first.Name)

	cancel()

	for range frames {
	}

	streamErr, ok := <-errs
	require.True(t, ok, "Expected a cancellation error")
	require.ErrorIs(t, streamErr, context.Canceled)
}

func TestOpenStream_RejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	defer server.Close()

	tr := testTransport(t, server.URL)

	frames, errs, err := tr.OpenStream(t.Context(), "task")
	svcErr, ok := errors.AsType[*sdkerrors.ServiceError](err)
	require.True(t, ok, "Expected ServiceError, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
	assert.Equal(t, "Unauthorized", svcErr.Message)
	assert.Nil(t, frames)
	assert.Nil(t, errs)
}

func TestOpenStream_WrongContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("hello"))
	}))
	defer server.Close()

	tr := testTransport(t, server.URL)

	_, _, err := tr.OpenStream(t.Context(), "task")
	protoErr, ok := errors.AsType[*sdkerrors.ProtocolError](err)
	require.True(t, ok, "Expected ProtocolError, got %v", err)
	assert.Contains(t, protoErr.Reason, "text/plain")
}

func TestOpenStream_TransportClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startSSE(w)
		writeFrame(w, "start", `{"message":"Generating questions..."}`)

		<-r.Context().Done()
	}))
	defer server.Close()

	tr := NewTransport(slog.Default(), &config.Options{BaseURL: server.URL})

	frames, errs, err := tr.OpenStream(t.Context(), "task")
	require.NoError(t, err)

	first, ok := <-frames
	require.True(t, ok)
	require.Equal(t, "start", first.Name)

	require.NoError(t, tr.Close())

	for range frames {
	}

	streamErr, ok := <-errs
	require.True(t, ok, "Expected an error after the transport was closed mid-stream")
	require.ErrorIs(t, streamErr, sdkerrors.ErrClientClosed)
}

func TestOpenStream_AfterClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	tr := NewTransport(slog.Default(), &config.Options{BaseURL: server.URL})
	require.NoError(t, tr.Close())

	_, _, err := tr.OpenStream(t.Context(), "task")
	require.ErrorIs(t, err, sdkerrors.ErrClientClosed)
}
