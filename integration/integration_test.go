//go:build integration

// Package integration holds tests that exercise the SDK against a live
// clarify service. Point CLARIFY_BASE_URL at the service (and set
// CLARIFY_API_KEY if it requires auth); with no variables set the tests
// expect cmd/mock-clarify on localhost:3000 and skip when nothing answers.
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	clarifysdk "github.com/clarifyhq/clarify-sdk-go"
)

// serviceBaseURL returns the address the tests target.
func serviceBaseURL() string {
	if url := os.Getenv("CLARIFY_BASE_URL"); url != "" {
		return url
	}

	return clarifysdk.DefaultBaseURL
}

// liveOptions builds the client options every integration test shares.
func liveOptions(extra ...clarifysdk.Option) []clarifysdk.Option {
	opts := []clarifysdk.Option{
		clarifysdk.WithBaseURL(serviceBaseURL()),
		clarifysdk.WithRequestTimeout(15 * time.Second),
	}

	if key := os.Getenv("CLARIFY_API_KEY"); key != "" {
		opts = append(opts, clarifysdk.WithAPIKey(key))
	}

	return append(opts, extra...)
}

// requireService skips the test when no service answers the health probe.
func requireService(t *testing.T) {
	t.Helper()

	probe := clarifysdk.NewClient(liveOptions()...)
	defer probe.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if !probe.Healthy(ctx) {
		t.Skipf("clarify service not reachable at %s (start cmd/mock-clarify)", serviceBaseURL())
	}
}

// newLiveClient builds a client against the live service, gated on the
// health probe. The client is closed when the test ends.
func newLiveClient(t *testing.T, extra ...clarifysdk.Option) clarifysdk.Client {
	t.Helper()

	requireService(t)

	client := clarifysdk.NewClient(liveOptions(extra...)...)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

// answerFor picks the first option when the question has options, or echoes
// the question text as a free-form answer.
func answerFor(q clarifysdk.Question) string {
	if len(q.Options) > 0 {
		return q.Options[0]
	}

	return "integration test answer"
}
