//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	clarifysdk "github.com/clarifyhq/clarify-sdk-go"
)

// TestGenerate_BatchFlow drives a whole session over the batch endpoint:
// generate, answer every question, complete, and fetch the aggregated context.
func TestGenerate_BatchFlow(t *testing.T) {
	client := newLiveClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	questions, err := client.Generate(ctx, "build a recipe manager with shopping lists")
	require.NoError(t, err, "Generate should succeed against a healthy service")
	require.NotEmpty(t, questions, "the service must return at least one question")

	require.Equal(t, clarifysdk.SessionStateActive, client.State())
	require.NotEmpty(t, client.SessionID())

	seen := make(map[string]bool, len(questions))

	for _, q := range questions {
		require.NotEmpty(t, q.ID)
		require.NotEmpty(t, q.Text)
		require.False(t, seen[q.ID], "question ids must be unique")
		seen[q.ID] = true
	}

	var last clarifysdk.Progress

	for i, q := range questions {
		progress, err := client.Answer(ctx, q.ID, answerFor(q))
		require.NoError(t, err, "answering %s should succeed", q.ID)

		require.Equal(t, i+1, progress.Answered)
		require.Equal(t, len(questions), progress.Total)
		require.GreaterOrEqual(t, progress.Percentage, last.Percentage,
			"progress percentage must not move backwards")

		last = progress
	}

	require.Equal(t, len(questions), last.Answered)

	require.NoError(t, client.Complete())
	require.Equal(t, clarifysdk.SessionStateCompleted, client.State())

	sessionContext, err := client.Context(ctx)
	require.NoError(t, err)

	require.Equal(t, client.SessionID(), sessionContext.SessionID)
	require.Len(t, sessionContext.Questions, len(questions))
	require.Len(t, sessionContext.Responses, len(questions))

	for _, q := range questions {
		require.Contains(t, sessionContext.Responses, q.ID)
	}

	t.Logf("Completed session %s with %d questions", sessionContext.SessionID, len(questions))
}

// TestGenerate_UnknownQuestionRejected verifies an answer for a foreign
// question id is rejected locally without touching the session.
func TestGenerate_UnknownQuestionRejected(t *testing.T) {
	client := newLiveClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	questions, err := client.Generate(ctx, "build a weather dashboard")
	require.NoError(t, err)

	_, err = client.Answer(ctx, "q_not_in_this_session", "anything")

	var unknownErr *clarifysdk.UnknownQuestionError
	require.ErrorAs(t, err, &unknownErr)
	require.Equal(t, "q_not_in_this_session", unknownErr.QuestionID)

	// The rejected submission must not consume progress.
	progress, err := client.Answer(ctx, questions[0].ID, answerFor(questions[0]))
	require.NoError(t, err)
	require.Equal(t, 1, progress.Answered)
}

// TestGenerate_SecondGenerateRejected verifies the one-session-per-client rule.
func TestGenerate_SecondGenerateRejected(t *testing.T) {
	client := newLiveClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := client.Generate(ctx, "build a chess puzzle trainer")
	require.NoError(t, err)

	_, err = client.Generate(ctx, "build something else")
	require.ErrorIs(t, err, clarifysdk.ErrSessionActive)
}

// TestGenerate_ClosedClientRejected verifies operations after Close fail fast.
func TestGenerate_ClosedClientRejected(t *testing.T) {
	client := newLiveClient(t)

	require.NoError(t, client.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := client.Generate(ctx, "build anything")
	require.ErrorIs(t, err, clarifysdk.ErrClientClosed)

	_, err = client.Answer(ctx, "q_1", "answer")
	require.ErrorIs(t, err, clarifysdk.ErrClientClosed)
}
