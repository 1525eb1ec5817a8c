// Package httpapi provides HTTP-based transport for the clarification service.
//
// This package implements the Transport interface over the service's REST
// endpoints and its Server-Sent Events stream. It handles request plumbing,
// status code classification, SSE frame reassembly, and idle detection on
// long-lived streams.
package httpapi
