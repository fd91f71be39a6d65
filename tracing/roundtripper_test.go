package tracing

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Keksclan/goNutHoard/contextx"
)

// newTestConfig returns a TracingConfig backed by an in-memory span recorder.
func newTestConfig(t *testing.T) (*TracingConfig, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return &TracingConfig{
		TracerProvider: tp,
		Propagators:    propagation.TraceContext{},
	}, rec
}

func testRequest(t *testing.T) *http.Request {
	t.Helper()
	u, err := url.Parse("https://app.example/data.json")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	req := &http.Request{Method: http.MethodGet, URL: u, Header: make(http.Header)}
	return req.WithContext(t.Context())
}

func okTransport(status int) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Request:    req,
		}, nil
	})
}

func TestRoundTripper_CreatesSpan(t *testing.T) {
	cfg, rec := newTestConfig(t)
	rt := RoundTripper(cfg, okTransport(http.StatusOK))

	req := testRequest(t)
	req = req.WithContext(contextx.WithDisposition(req.Context(), "stale_while_revalidate"))

	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "intercept GET" {
		t.Fatalf("expected span name %q, got %q", "intercept GET", span.Name())
	}
	if span.SpanKind() != trace.SpanKindClient {
		t.Fatalf("expected SpanKindClient, got %v", span.SpanKind())
	}

	assertAttr(t, span.Attributes(), "http.request.method", "GET")
	assertAttr(t, span.Attributes(), "url.full", "https://app.example/data.json")
	assertAttr(t, span.Attributes(), "nuthoard.disposition", "stale_while_revalidate")
}

func TestRoundTripper_RecordsTransportError(t *testing.T) {
	cfg, rec := newTestConfig(t)
	boom := errors.New("connection refused")
	rt := RoundTripper(cfg, roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	}))

	if _, err := rt.RoundTrip(testRequest(t)); !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].Status().Code; got != codes.Error {
		t.Fatalf("span status: got %v, want Error", got)
	}
}

func TestRoundTripper_InjectsTraceContext(t *testing.T) {
	cfg, _ := newTestConfig(t)
	var seen http.Header
	rt := RoundTripper(cfg, roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		seen = req.Header.Clone()
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil))}, nil
	}))

	if _, err := rt.RoundTrip(testRequest(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Get("Traceparent") == "" {
		t.Fatal("expected traceparent header to be injected")
	}
}

func TestRoundTripper_NilConfigPassthrough(t *testing.T) {
	base := &http.Transport{}
	rt := RoundTripper(nil, base)
	if rt != base {
		t.Fatal("nil config should return the base transport unchanged")
	}
}

// assertAttr fails the test unless attrs contains key with the given string value.
func assertAttr(t *testing.T, attrs []attribute.KeyValue, key, want string) {
	t.Helper()
	for _, kv := range attrs {
		if string(kv.Key) == key {
			if got := kv.Value.Emit(); got != want {
				t.Fatalf("attribute %s: got %q, want %q", key, got, want)
			}
			return
		}
	}
	t.Fatalf("attribute %s not found", key)
}
