package gonuthoard

// DefaultGeneration is the generation name used when none is configured.
// Deployments that change cached content must ship their own name.
const DefaultGeneration = "nuthoard-v1"

// DefaultOptions returns the recommended set of options for production use:
// panic recovery, request IDs and a bounded in-process cache.
func DefaultOptions() []Option {
	return []Option{
		WithRecovery(),
		WithRequestID(),
		WithCacheL1(10_000),
	}
}
