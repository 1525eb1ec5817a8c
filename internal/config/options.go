package config

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the service address used when none is configured.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultRequestTimeout bounds each unary request/response call.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultStreamIdleTimeout bounds the wait for the next stream frame.
	DefaultStreamIdleTimeout = 120 * time.Second

	// DefaultMaxResponseBytes caps how much of a response body is read.
	DefaultMaxResponseBytes = 10 << 20 // 10 MB
)

// Options configures the behavior of a clarify client.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// BaseURL is the root address of the clarifying question service.
	// If empty, DefaultBaseURL is used.
	BaseURL string

	// APIKey is the bearer credential attached to every request.
	// If empty, no Authorization header is sent; there is no default or
	// anonymous fallback token, and the SDK never reads the environment.
	APIKey string

	// HTTPClient overrides the http.Client used for all calls.
	// If nil, a client with sane defaults is created.
	HTTPClient *http.Client

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// RequestTimeout bounds each unary request/response call.
	// If zero, DefaultRequestTimeout is used.
	RequestTimeout time.Duration

	// StreamIdleTimeout is the longest the client waits for the next stream
	// frame before surfacing a NetworkError. If zero, DefaultStreamIdleTimeout
	// is used.
	StreamIdleTimeout time.Duration

	// MaxResponseBytes caps how much of any response body is read.
	// If zero, DefaultMaxResponseBytes is used.
	MaxResponseBytes int64

	// StreamingDelivery makes RunSession retrieve questions over the
	// incremental event stream instead of one batch request.
	StreamingDelivery bool

	// Transport allows injecting a custom transport implementation.
	// If nil, the default HTTP transport is created automatically.
	// This field is not serialized to JSON.
	Transport Transport `json:"-"`
}

// BaseURLOrDefault returns the configured base URL or the default.
func (o *Options) BaseURLOrDefault() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return DefaultBaseURL
}

// RequestTimeoutOrDefault returns the configured request timeout or the default.
func (o *Options) RequestTimeoutOrDefault() time.Duration {
	if o.RequestTimeout > 0 {
		return o.RequestTimeout
	}

	return DefaultRequestTimeout
}

// StreamIdleTimeoutOrDefault returns the configured idle timeout or the default.
func (o *Options) StreamIdleTimeoutOrDefault() time.Duration {
	if o.StreamIdleTimeout > 0 {
		return o.StreamIdleTimeout
	}

	return DefaultStreamIdleTimeout
}

// MaxResponseBytesOrDefault returns the configured body cap or the default.
func (o *Options) MaxResponseBytesOrDefault() int64 {
	if o.MaxResponseBytes > 0 {
		return o.MaxResponseBytes
	}

	return DefaultMaxResponseBytes
}
