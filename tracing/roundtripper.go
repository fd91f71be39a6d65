// Package tracing provides an OpenTelemetry round-tripper for the
// interception layer. Tracing is only active when [TracingConfig] is wired
// in via the WithOpenTelemetry worker option.
package tracing

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Keksclan/goNutHoard/contextx"
)

// TracingConfig holds the OpenTelemetry configuration used by the
// intercepting round-tripper.
type TracingConfig struct {
	// TracerProvider supplies the Tracer used to create spans. When nil the
	// global otel.GetTracerProvider() is used.
	TracerProvider trace.TracerProvider

	// Propagators injects trace context into outgoing request headers.
	// When nil the global otel.GetTextMapPropagator() is used.
	Propagators propagation.TextMapPropagator
}

// tracer returns a configured [trace.Tracer].
func (c *TracingConfig) tracer() trace.Tracer {
	tp := c.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer("github.com/Keksclan/goNutHoard/tracing")
}

// propagators returns the configured propagator (or global default).
func (c *TracingConfig) propagators() propagation.TextMapPropagator {
	if c.Propagators != nil {
		return c.Propagators
	}
	return otel.GetTextMapPropagator()
}

// RoundTripper wraps next so that every intercepted request is recorded as a
// client span carrying the method, URL, chosen disposition and resulting
// status. If cfg is nil the wrapper is a no-op passthrough.
func RoundTripper(cfg *TracingConfig, next http.RoundTripper) http.RoundTripper {
	if cfg == nil {
		return next
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		ctx, span := cfg.tracer().Start(req.Context(), "intercept "+req.Method,
			trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()

		span.SetAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL.String()),
		)
		if d := contextx.DispositionFromContext(ctx); d != "" {
			span.SetAttributes(attribute.String("nuthoard.disposition", d))
		}

		req = req.Clone(ctx)
		cfg.propagators().Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := next.RoundTrip(req)
		recordOutcome(span, resp, err)
		return resp, err
	})
}

// recordOutcome marks the span according to the round trip result.
func recordOutcome(span trace.Span, resp *http.Response, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, resp.Status)
		return
	}
	span.SetStatus(codes.Ok, "")
}

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
