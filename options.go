package clarifysdk

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/clarifyhq/clarify-sdk-go/internal/config"
)

// Option configures ClientOptions using the functional options pattern.
// This is the primary option type for configuring clients and session runs.
type Option func(*ClientOptions)

// applyOptions applies functional options to a ClientOptions struct.
func applyOptions(opts []Option) *ClientOptions {
	options := &ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *ClientOptions) {
		o.Logger = logger
	}
}

// WithBaseURL sets the root address of the clarifying question service.
// If not set, DefaultBaseURL is used.
func WithBaseURL(baseURL string) Option {
	return func(o *ClientOptions) {
		o.BaseURL = baseURL
	}
}

// WithAPIKey sets the bearer credential attached to every request.
// If not set, requests are sent without an Authorization header; the SDK
// never reads credentials from the environment.
func WithAPIKey(key string) Option {
	return func(o *ClientOptions) {
		o.APIKey = key
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(o *ClientOptions) {
		o.UserAgent = userAgent
	}
}

// ===== Timeouts and Limits =====

// WithRequestTimeout bounds each unary request/response call.
// If not set, DefaultRequestTimeout is used.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *ClientOptions) {
		o.RequestTimeout = timeout
	}
}

// WithStreamIdleTimeout sets the longest the client waits for the next
// stream frame before giving up with a NetworkError.
// If not set, DefaultStreamIdleTimeout is used.
func WithStreamIdleTimeout(timeout time.Duration) Option {
	return func(o *ClientOptions) {
		o.StreamIdleTimeout = timeout
	}
}

// WithMaxResponseBytes caps how much of any response body is read.
// If not set, DefaultMaxResponseBytes is used.
func WithMaxResponseBytes(limit int64) Option {
	return func(o *ClientOptions) {
		o.MaxResponseBytes = limit
	}
}

// ===== Delivery =====

// WithStreamingDelivery makes RunSession retrieve questions over the
// incremental event stream instead of one batch request. Questions are
// yielded as the service produces them rather than all at once.
func WithStreamingDelivery(streaming bool) Option {
	return func(o *ClientOptions) {
		o.StreamingDelivery = streaming
	}
}

// ===== Advanced =====

// WithHTTPClient overrides the http.Client used for all calls.
// The SDK applies per-request deadlines itself, so the client's own
// Timeout field should stay zero or it will cut long streams short.
func WithHTTPClient(client *http.Client) Option {
	return func(o *ClientOptions) {
		o.HTTPClient = client
	}
}

// WithTransport injects a custom transport implementation.
// The transport must implement the Transport interface.
func WithTransport(transport config.Transport) Option {
	return func(o *ClientOptions) {
		o.Transport = transport
	}
}
