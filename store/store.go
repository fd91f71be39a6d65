// Package store provides the cache store adapter: named, versioned cache
// generations holding response snapshots keyed by request identity. An
// in-process L1 implementation backed by ristretto and a Redis-backed L2 are
// provided, plus a tiered combination of the two.
package store

import (
	"context"
	"errors"
	"net/http"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("store: closed")

// Store manages named cache generations. Exactly one generation is considered
// current at any time by the layer above; the store itself just holds them.
type Store interface {
	// Open returns a handle to the named generation, creating it if it does
	// not exist.
	Open(ctx context.Context, name string) (Generation, error)

	// Names lists all generation names currently present.
	Names(ctx context.Context) ([]string, error)

	// DeleteAllExcept destroys every generation whose name differs from keep,
	// including all of their entries. The kept generation is untouched.
	DeleteAllExcept(ctx context.Context, keep string) error
}

// Generation is a flat key → snapshot collection tied to one deployment
// version. Writes are last-write-wins; single-key operations are atomic.
type Generation interface {
	// Name returns the generation's name.
	Name() string

	// Get retrieves the snapshot stored under key. The boolean indicates a
	// cache hit.
	Get(ctx context.Context, key string) (*Snapshot, bool, error)

	// Put stores snap under key, overwriting any prior entry.
	Put(ctx context.Context, key string, snap *Snapshot) error
}

// Key derives the cache key for req from its method and URL. Only GET
// requests participate in caching; for any other method ok is false and the
// request must bypass the store entirely.
func Key(req *http.Request) (key string, ok bool) {
	if req.Method != http.MethodGet || req.URL == nil {
		return "", false
	}
	return req.Method + " " + req.URL.String(), true
}
