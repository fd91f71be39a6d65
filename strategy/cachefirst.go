package strategy

import (
	"context"
	"net/http"

	"github.com/Keksclan/goNutHoard/origins"
	"github.com/Keksclan/goNutHoard/store"
)

// CacheFirst serves repeat requests for immutable-ish assets without touching
// the network: a cache hit returns immediately, a miss triggers exactly one
// fetch whose successful result is stored before being returned.
type CacheFirst struct {
	// Cache is the current generation.
	Cache store.Generation

	// Fetch performs the network leg on a cache miss.
	Fetch Fetcher

	// Trusted, when non-nil, is told about the first successful fetch from a
	// trusted external origin.
	Trusted *origins.Set
}

// Execute runs the strategy for req. Transport failures are absorbed into a
// synthesized 503; only cache-store failures are returned as errors.
func (s *CacheFirst) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	key, ok := store.Key(req)
	if !ok {
		// The dispatcher only routes GETs here; anything else bypasses the
		// store and goes straight to the network.
		resp, err := s.Fetch(req)
		if err != nil {
			return Unavailable(req), nil
		}
		return resp, nil
	}

	snap, hit, err := s.Cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if hit {
		return snap.Response(req), nil
	}

	resp, err := s.Fetch(req)
	if err != nil {
		return Unavailable(req), nil
	}
	if !Success(resp) {
		return resp, nil
	}

	snap, err = store.Capture(resp)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Put(ctx, key, snap); err != nil {
		return nil, err
	}
	if s.Trusted != nil {
		if origin, ok := s.Trusted.Match(req.URL); ok {
			s.Trusted.MarkSeen(origin)
		}
	}
	return resp, nil
}
