package clarifysdk

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewClient_Creation tests client creation.
func TestNewClient_Creation(t *testing.T) {
	client := NewClient()
	require.NotNil(t, client)
	require.Equal(t, SessionStateUninitialized, client.State())

	err := client.Close()
	require.NoError(t, err)
}

// TestClient_FullSessionFlow drives a session through the public surface:
// generate, answer everything, complete, fetch the aggregated context.
func TestClient_FullSessionFlow(t *testing.T) {
	service := newFakeService("sess_pub", demoQuestions()...)

	client := NewClient(WithTransport(service))
	defer client.Close()

	questions, err := client.Generate(t.Context(), "make me a website that runs pseudocode")
	require.NoError(t, err)
	require.Len(t, questions, 3)
	require.Equal(t, SessionStateActive, client.State())
	require.Equal(t, "sess_pub", client.SessionID())

	for _, q := range questions {
		progress, err := client.Answer(t.Context(), q.ID, q.Options[0])
		require.NoError(t, err)
		assert.Equal(t, 3, progress.Total)
	}

	assert.Equal(t, 3, client.Progress().Answered)

	require.NoError(t, client.Complete())
	require.Equal(t, SessionStateCompleted, client.State())

	sessionContext, err := client.Context(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "sess_pub", sessionContext.SessionID)
	assert.Len(t, sessionContext.Responses, 3)
	assert.InDelta(t, 100.0, sessionContext.Progress.Percentage, 0.01)
}

// TestClient_BatchAndStreamingSameSession verifies both retrieval modes
// produce the same session from the same fixture: identical session id and
// identically ordered questions.
func TestClient_BatchAndStreamingSameSession(t *testing.T) {
	questions := demoQuestions()

	batchService := newFakeService("sess_same", questions...)
	batchClient := NewClient(WithTransport(batchService))

	defer batchClient.Close()

	_, err := batchClient.Generate(t.Context(), "task")
	require.NoError(t, err)

	streamService := newFakeService("sess_same", questions...)
	streamService.streamFrames = streamFixture(t, "sess_same", questions)
	streamClient := NewClient(WithTransport(streamService))

	defer streamClient.Close()

	for _, err := range streamClient.GenerateStream(t.Context(), "task") {
		require.NoError(t, err)
	}

	require.Equal(t, SessionStateActive, streamClient.State())
	assert.Equal(t, batchClient.SessionID(), streamClient.SessionID())
	assert.Equal(t, batchClient.Questions(), streamClient.Questions())
}

// TestClient_GenerateStreamEvents checks the typed event sequence a stream
// consumer observes.
func TestClient_GenerateStreamEvents(t *testing.T) {
	questions := demoQuestions()[:2]
	service := newFakeService("sess_ev", questions...)
	service.streamFrames = streamFixture(t, "sess_ev", questions)

	client := NewClient(WithTransport(service))
	defer client.Close()

	var types []string

	for ev, err := range client.GenerateStream(t.Context(), "task") {
		require.NoError(t, err)

		types = append(types, ev.EventType())
	}

	assert.Equal(t, []string{"start", "question", "question", "complete"}, types)
	assert.Equal(t, SessionStateActive, client.State())
}

// TestClient_AnswerWithoutSession tests answering before any retrieval.
func TestClient_AnswerWithoutSession(t *testing.T) {
	service := newFakeService("sess_none", demoQuestions()...)

	client := NewClient(WithTransport(service))
	defer client.Close()

	_, err := client.Answer(t.Context(), "q_1", "Web")
	require.Error(t, err)

	var invalidErr *InvalidSessionError
	require.ErrorAs(t, err, &invalidErr)
	assert.Empty(t, service.answerOrder())
}

// TestClient_ContextRequiresSession tests that Context is gated on having
// an active or completed session.
func TestClient_ContextRequiresSession(t *testing.T) {
	service := newFakeService("sess_gate", demoQuestions()...)

	client := NewClient(WithTransport(service))
	defer client.Close()

	_, err := client.Context(t.Context())
	require.Error(t, err)

	var invalidErr *InvalidSessionError
	require.ErrorAs(t, err, &invalidErr)
}

// TestClient_SessionsAndHealthy tests the stateless passthroughs.
func TestClient_SessionsAndHealthy(t *testing.T) {
	service := newFakeService("sess_list", demoQuestions()...)

	client := NewClient(WithTransport(service))
	defer client.Close()

	require.True(t, client.Healthy(t.Context()))

	summaries, err := client.Sessions(t.Context())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "sess_list", summaries[0].SessionID)

	service.healthy = false
	require.False(t, client.Healthy(t.Context()))
}

// TestClient_CloseMultipleTimes tests idempotent close.
func TestClient_CloseMultipleTimes(t *testing.T) {
	client := NewClient()

	err := client.Close()
	require.NoError(t, err)

	err = client.Close()
	require.NoError(t, err)

	err = client.Close()
	require.NoError(t, err)
}

// TestClient_OperationsAfterCloseReturnError tests that all operations
// return appropriate errors after Close() is called.
func TestClient_OperationsAfterCloseReturnError(t *testing.T) {
	service := newFakeService("sess_closed", demoQuestions()...)
	client := NewClient(WithTransport(service))

	ctx := context.Background()

	// Close first
	err := client.Close()
	require.NoError(t, err)
	require.True(t, service.isClosed())

	// Generate should fail
	_, err = client.Generate(ctx, "task")
	require.ErrorIs(t, err, ErrClientClosed)

	// GenerateStream should yield exactly the closed error
	for ev, err := range client.GenerateStream(ctx, "task") {
		require.Nil(t, ev)
		require.ErrorIs(t, err, ErrClientClosed)
	}

	// Answer should fail
	_, err = client.Answer(ctx, "q_1", "Web")
	require.ErrorIs(t, err, ErrClientClosed)

	// Context should fail
	_, err = client.Context(ctx)
	require.ErrorIs(t, err, ErrClientClosed)

	// Sessions should fail
	_, err = client.Sessions(ctx)
	require.ErrorIs(t, err, ErrClientClosed)

	// Healthy reports false rather than erroring
	require.False(t, client.Healthy(ctx))
}

// TestClient_ConcurrentCloseNoPanic tests that concurrent Close() calls
// don't panic.
func TestClient_ConcurrentCloseNoPanic(t *testing.T) {
	service := newFakeService("sess_cc", demoQuestions()...)
	client := NewClient(WithTransport(service))

	const goroutines = 50

	var wg sync.WaitGroup

	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()

			// Should not panic
			err := client.Close()
			require.NoError(t, err)
		}()
	}

	wg.Wait()

	// Verify client is closed
	_, err := client.Generate(context.Background(), "task")
	require.ErrorIs(t, err, ErrClientClosed)
}

// TestClient_GenerateAfterFailureResets tests that a failed session can be
// retried with a fresh Generate.
func TestClient_GenerateAfterFailureResets(t *testing.T) {
	service := newFakeService("sess_retry", demoQuestions()...)
	service.generateErr = &ServiceError{StatusCode: 503, Message: "overloaded"}

	client := NewClient(WithTransport(service))
	defer client.Close()

	_, err := client.Generate(t.Context(), "task")
	require.Error(t, err)
	require.Equal(t, SessionStateFailed, client.State())
	require.Error(t, client.Err())

	service.generateErr = nil

	questions, err := client.Generate(t.Context(), "task")
	require.NoError(t, err)
	require.Len(t, questions, 3)
	require.Equal(t, SessionStateActive, client.State())
	require.NoError(t, client.Err())
}
