package core

import (
	"net/http"
	"testing"
)

type markerRT struct {
	trace *[]string
}

func (m markerRT) RoundTrip(*http.Request) (*http.Response, error) {
	*m.trace = append(*m.trace, "base")
	return nil, nil
}

func tag(trace *[]string, name string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return rtFunc(func(req *http.Request) (*http.Response, error) {
			*trace = append(*trace, name)
			return next.RoundTrip(req)
		})
	}
}

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestBuildOrdersByPriority(t *testing.T) {
	var trace []string
	var b MiddlewareBuilder
	b.Add(50, tag(&trace, "user"))
	b.Add(0, tag(&trace, "recovery"))
	b.Add(20, tag(&trace, "tracing"))
	b.Add(10, tag(&trace, "requestid"))

	rt := Compose(markerRT{trace: &trace}, b.Build())
	if _, err := rt.RoundTrip(nil); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}

	want := []string{"recovery", "requestid", "tracing", "user", "base"}
	if len(trace) != len(want) {
		t.Fatalf("trace: got %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace[%d]: got %q, want %q", i, trace[i], want[i])
		}
	}
}

func TestBuildIsStableWithinPriority(t *testing.T) {
	var trace []string
	var b MiddlewareBuilder
	b.Add(50, tag(&trace, "first"))
	b.Add(50, tag(&trace, "second"))

	rt := Compose(markerRT{trace: &trace}, b.Build())
	if _, err := rt.RoundTrip(nil); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if trace[0] != "first" || trace[1] != "second" {
		t.Fatalf("same-priority middleware must keep registration order, got %v", trace)
	}
}

func TestComposeEmpty(t *testing.T) {
	var trace []string
	base := markerRT{trace: &trace}
	if got := Compose(base, nil); got != http.RoundTripper(base) {
		t.Fatal("composing zero middleware must return the base unchanged")
	}
}
