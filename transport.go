package clarifysdk

import "github.com/clarifyhq/clarify-sdk-go/internal/config"

// Transport defines the interface for talking to the clarifying question
// service. Implement this to provide custom transports for testing, mocking,
// or alternative communication methods (e.g. a different wire protocol).
//
// The default implementation speaks HTTP with a server-sent-events stream.
// Custom transports can be injected via WithTransport.
type Transport = config.Transport
