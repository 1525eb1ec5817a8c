package httpapi

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/clarifyhq/clarify-sdk-go/internal/errors"
	"github.com/clarifyhq/clarify-sdk-go/internal/event"
)

const (
	// maxFrameTokenSize is the maximum buffer size for reading stream lines.
	maxFrameTokenSize = 1024 * 1024 // 1MB
)

// OpenStream starts a streaming question retrieval for the given task.
//
// Frames are delivered on the returned channel in arrival order until the
// byte stream ends, after which the channel is closed. The error channel
// carries at most one error describing why reading stopped: the caller's
// context error on cancellation, a NetworkError wrapping ErrStreamIdle when
// the idle watchdog fires, ErrClientClosed when the transport is closed
// underneath the stream, or a NetworkError for a broken connection.
//
// A stream the service ended cleanly closes the frame channel with no error.
// The transport only reports how the byte stream ended; whether a terminal
// frame was seen before the end is the consumer's call.
func (t *HTTPTransport) OpenStream(ctx context.Context, task string) (<-chan event.Frame, <-chan error, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	id, err := t.registerStream(cancel)
	if err != nil {
		cancel()

		return nil, nil, err
	}

	query := url.Values{"taskDescription": {task}}

	req, err := t.newRequest(streamCtx, http.MethodGet, "/api/stream?"+query.Encode(), nil)
	if err != nil {
		t.deregisterStream(id)
		cancel()

		return nil, nil, err
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	t.log.Debug("Opening event stream",
		"task_len", len(task),
		"request_id", req.Header.Get("X-Request-ID"))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.deregisterStream(id)
		cancel()

		return nil, nil, &errors.NetworkError{Op: "open stream", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, t.maxResponseBytes))
		_ = resp.Body.Close()
		t.deregisterStream(id)
		cancel()

		t.log.Debug("Stream rejected", "status", resp.StatusCode)

		return nil, nil, t.statusError("", resp.StatusCode, data)
	}

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		_ = resp.Body.Close()
		t.deregisterStream(id)
		cancel()

		return nil, nil, &errors.ProtocolError{
			Reason: fmt.Sprintf("expected text/event-stream response, got %q", ct),
		}
	}

	frames := make(chan event.Frame)
	errs := make(chan error, 1)

	go t.readFrames(ctx, streamCtx, cancel, id, resp.Body, frames, errs)

	return frames, errs, nil
}

// readFrames reads the SSE byte stream, reassembles frames, and delivers them
// until the stream ends. Both channels are closed when it returns.
func (t *HTTPTransport) readFrames(
	ctx context.Context,
	streamCtx context.Context,
	cancel context.CancelFunc,
	id int,
	body io.ReadCloser,
	frames chan<- event.Frame,
	errs chan<- error,
) {
	var idleFired atomic.Bool

	defer close(errs)
	defer close(frames)
	defer t.log.Debug("Stream reader stopped")
	defer t.deregisterStream(id)
	defer cancel()
	defer func() { _ = body.Close() }()

	// The watchdog cancels the stream context when nothing, not even a
	// keep-alive comment, arrives for a full idle interval. Cancelling the
	// request context unblocks the pending body read.
	watchdog := time.AfterFunc(t.streamIdleTimeout, func() {
		idleFired.Store(true)
		cancel()
	})
	defer watchdog.Stop()

	scanner := bufio.NewScanner(body)
	buf := make([]byte, maxFrameTokenSize)
	scanner.Buffer(buf, maxFrameTokenSize)

	var builder frameBuilder

	frameCount := 0

	for scanner.Scan() {
		watchdog.Reset(t.streamIdleTimeout)

		line := strings.TrimSuffix(scanner.Text(), "\r")

		frame, ok := builder.feed(line)
		if !ok {
			continue
		}

		frameCount++
		t.log.Debug("Received frame", "event_type", frame.Name, "frame_count", frameCount)

		select {
		case frames <- frame:
		case <-streamCtx.Done():
			t.reportStreamEnd(ctx, streamCtx, &idleFired, nil, errs)

			return
		}
	}

	scanErr := scanner.Err()

	// A trailing frame without a final blank line still counts.
	if frame, ok := builder.flush(); ok && scanErr == nil {
		select {
		case frames <- frame:
		case <-streamCtx.Done():
			t.reportStreamEnd(ctx, streamCtx, &idleFired, nil, errs)

			return
		}
	}

	if scanErr != nil || streamCtx.Err() != nil {
		t.reportStreamEnd(ctx, streamCtx, &idleFired, scanErr, errs)
	}
}

// reportStreamEnd sends the single error that best explains why the stream
// stopped. An idle timeout or caller cancellation wins over the read error it
// caused. A stream context cancelled by neither of those means the transport
// was closed underneath the stream.
func (t *HTTPTransport) reportStreamEnd(
	ctx context.Context,
	streamCtx context.Context,
	idleFired *atomic.Bool,
	readErr error,
	errs chan<- error,
) {
	switch {
	case idleFired.Load():
		t.log.Warn("Stream idle timeout", "idle_timeout", t.streamIdleTimeout)

		errs <- &errors.NetworkError{Op: "stream questions", Err: errors.ErrStreamIdle}
	case ctx.Err() != nil:
		errs <- ctx.Err()
	case streamCtx.Err() != nil:
		errs <- errors.ErrClientClosed
	case readErr != nil:
		errs <- &errors.NetworkError{Op: "stream questions", Err: readErr}
	}
}
