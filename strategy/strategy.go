// Package strategy implements the three caching algorithms the dispatcher
// routes to: cache-first, network-first-with-fallback and
// stale-while-revalidate. Each executor is a fire-and-complete function from
// (request, generation handle) to response; no state is held across calls.
package strategy

import (
	"bytes"
	"io"
	"net/http"
)

// Fetcher performs a single network fetch. No retries happen at this layer;
// a transport error is returned as-is and interpreted by each strategy.
type Fetcher func(*http.Request) (*http.Response, error)

// Tracker extends the lifetime of background work beyond the triggering
// request, so that a fire-and-forget revalidation is not lost when the
// immediate response has already been delivered.
type Tracker interface {
	Go(fn func())
}

// Gate decides whether a background revalidation may run right now. A nil
// Gate always permits.
type Gate interface {
	Allow() bool
}

// Success reports whether resp carries a success status. Only successful
// responses are ever persisted; error pages must not poison the cache.
func Success(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Unavailable synthesizes a well-formed 503 response for req. Strategies that
// absorb transport failures return this instead of propagating the error, so
// callers always receive a response object.
func Unavailable(req *http.Request) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "text/plain; charset=utf-8")
	body := []byte("service unavailable")
	return &http.Response{
		StatusCode:    http.StatusServiceUnavailable,
		Status:        "503 Service Unavailable",
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
