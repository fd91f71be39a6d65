// Package gonuthoard provides a client-resident request interception layer:
// a composable http.RoundTripper that decides, per request, whether to serve
// from a local cache generation, fetch from the network, or do both and
// reconcile. It transparently improves offline availability and load latency
// without application code changes.
package gonuthoard

import "net/http"

// Middleware transforms an http.RoundTripper, allowing pre/post behavior
// composition around the strategy dispatcher.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain composes middlewares from left to right, i.e., Chain(A, B)(rt) => A(B(rt)).
func Chain(mw ...Middleware) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		for i := len(mw) - 1; i >= 0; i-- {
			next = mw[i](next)
		}
		return next
	}
}

// Wrap applies the middleware chain to a round-tripper and returns the
// wrapped round-tripper.
func Wrap(rt http.RoundTripper, mw ...Middleware) http.RoundTripper {
	if len(mw) == 0 {
		return rt
	}
	return Chain(mw...)(rt)
}
