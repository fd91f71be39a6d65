// Package contextx carries per-request metadata through context values:
// the originating client connection, a request ID and the disposition chosen
// by the classifier.
package contextx

import "context"

// Client identifies the controlled page or connection a request originated
// from. It is populated at the interception boundary and read by middleware;
// the activation step claims all registered clients.
type Client struct {
	ID  string
	URL string
}

// WithClient returns a derived context that carries the given Client.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey, c)
}

// ClientFromContext extracts the Client stored in ctx.
// The boolean return value indicates whether a Client was present.
func ClientFromContext(ctx context.Context) (Client, bool) {
	c, ok := ctx.Value(clientKey).(Client)
	return c, ok
}
