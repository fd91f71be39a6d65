// Package interceptors provides the round-tripper middlewares wrapped around
// the strategy dispatcher: panic recovery and request-ID injection. Tracing
// lives in its own package.
package interceptors

import "net/http"

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
