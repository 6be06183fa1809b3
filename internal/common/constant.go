// Package common contains shared constants and sentinel errors used across
// payscan components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on outbound API requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the opaque token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates a request with client-side log lines.
	RequestIDHeaderName = "X-Request-ID"

	// Placeholder is shown wherever an optional payment field was not extracted.
	Placeholder = "—"

	// NotDetected is shown for absent fields in a fresh upload result.
	NotDetected = "Not detected"
)
