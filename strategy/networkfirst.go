package strategy

import (
	"context"
	"net/http"

	"github.com/Keksclan/goNutHoard/store"
)

// NetworkFirst serves navigations: fresh content when the network is up, a
// last-known-good cached page when it is not, and the offline placeholder
// page when neither exists. It never returns a raw transport error — the
// navigation layer always receives something renderable.
type NetworkFirst struct {
	// Cache is the current generation.
	Cache store.Generation

	// Fetch performs the network leg.
	Fetch Fetcher

	// OfflineKey is the store key of the offline placeholder page, installed
	// at install time.
	OfflineKey string
}

// Execute runs the strategy for req. A successful fetch is written through to
// the cache before being returned; only cache-store failures surface as
// errors.
func (s *NetworkFirst) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, ferr := s.Fetch(req)
	if ferr == nil {
		if !Success(resp) {
			return resp, nil
		}
		snap, err := store.Capture(resp)
		if err != nil {
			return nil, err
		}
		if key, ok := store.Key(req); ok {
			if err := s.Cache.Put(ctx, key, snap); err != nil {
				return nil, err
			}
		}
		return resp, nil
	}

	// Offline: exact cached entry first.
	if key, ok := store.Key(req); ok {
		snap, hit, err := s.Cache.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if hit {
			return snap.Response(req), nil
		}
	}

	// Then the placeholder page.
	snap, hit, err := s.Cache.Get(ctx, s.OfflineKey)
	if err != nil {
		return nil, err
	}
	if hit {
		return snap.Response(req), nil
	}

	// Placeholder missing means the install never completed. Still no raw
	// error to the caller.
	return Unavailable(req), nil
}
