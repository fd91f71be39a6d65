// Package core holds the wiring logic that assembles the worker's
// round-tripper chain, isolated from the public API surface.
package core

import (
	"cmp"
	"net/http"
	"slices"
)

// Middleware transforms an http.RoundTripper.
type Middleware = func(http.RoundTripper) http.RoundTripper

// entry pairs a middleware with a deterministic execution order. Lower Order
// values run first (outermost).
type entry struct {
	mw    Middleware
	order int
}

// MiddlewareBuilder collects middleware entries and produces a sorted slice
// ready for composition.
type MiddlewareBuilder struct {
	entries []entry
}

// Add registers a middleware with the given order.
func (b *MiddlewareBuilder) Add(order int, mw Middleware) {
	b.entries = append(b.entries, entry{mw: mw, order: order})
}

// Build sorts the collected middleware by Order (stable) and returns them
// outermost-first.
func (b *MiddlewareBuilder) Build() []Middleware {
	slices.SortStableFunc(b.entries, func(a, c entry) int {
		return cmp.Compare(a.order, c.order)
	})
	out := make([]Middleware, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e.mw)
	}
	return out
}

// Compose wraps base with the middlewares so that mws[0] is outermost.
func Compose(base http.RoundTripper, mws []Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}
