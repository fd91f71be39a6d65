package interceptors

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/Keksclan/goNutHoard/contextx"
)

// requestIDHeader carries the request identifier on the wire.
const requestIDHeader = "X-Request-Id"

// newRequestID generates a random hex-encoded request identifier.
func newRequestID() string {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}

// RequestID returns a middleware that ensures every intercepted request
// carries a request ID, both in its context and in the X-Request-Id header.
// An ID already present on the request is preserved.
func RequestID() func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			id := req.Header.Get(requestIDHeader)
			if id == "" {
				id = contextx.RequestIDFromContext(req.Context())
			}
			if id == "" {
				id = newRequestID()
			}
			req = req.Clone(contextx.WithRequestID(req.Context(), id))
			req.Header.Set(requestIDHeader, id)
			return next.RoundTrip(req)
		})
	}
}
