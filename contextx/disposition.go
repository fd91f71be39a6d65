package contextx

import "context"

// WithDisposition returns a derived context that carries the disposition
// label chosen by the classifier for this request.
func WithDisposition(ctx context.Context, d string) context.Context {
	return context.WithValue(ctx, dispositionKey, d)
}

// DispositionFromContext extracts the disposition label stored in ctx.
// It returns an empty string when no disposition is present.
func DispositionFromContext(ctx context.Context) string {
	d, _ := ctx.Value(dispositionKey).(string)
	return d
}
