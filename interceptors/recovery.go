package interceptors

import (
	"bytes"
	"io"
	"net/http"
)

// Recovery returns a middleware that recovers from panics in the wrapped
// transport and returns a synthesized 503 instead of crashing the process.
// The interception point must always receive a well-formed response.
func Recovery() func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (resp *http.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = unavailable(req)
					err = nil
				}
			}()
			return next.RoundTrip(req)
		})
	}
}

// unavailable builds the 503 returned when the wrapped transport panics.
func unavailable(req *http.Request) *http.Response {
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
