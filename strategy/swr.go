package strategy

import (
	"context"
	"net/http"

	"github.com/Keksclan/goNutHoard/store"
)

// StaleWhileRevalidate returns cached content immediately and refreshes the
// cache in the background for next time. It is the only strategy that
// decouples cache population from response delivery, and the only one that
// propagates failure instead of synthesizing a fallback: it handles
// miscellaneous non-critical GET traffic where absence is acceptable.
type StaleWhileRevalidate struct {
	// Cache is the current generation.
	Cache store.Generation

	// Fetch performs the network leg.
	Fetch Fetcher

	// Track extends the lifetime of the background revalidation beyond the
	// triggering request. When nil a plain goroutine is used.
	Track Tracker

	// Revalidate gates background refreshes. A nil gate always permits.
	Revalidate Gate
}

// Execute runs the strategy for req. On a cache hit the cached response is
// returned without waiting for the network leg; the revalidation proceeds in
// the background, detached from req's cancellation, and its failure is
// silently swallowed. On a miss the caller receives the fetch's outcome
// as-is.
func (s *StaleWhileRevalidate) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	key, ok := store.Key(req)
	if !ok {
		return s.Fetch(req)
	}

	snap, hit, err := s.Cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if hit {
		s.spawn(context.WithoutCancel(ctx), req, key)
		return snap.Response(req), nil
	}

	resp, err := s.Fetch(req)
	if err != nil {
		return nil, err
	}
	if Success(resp) {
		snap, err := store.Capture(resp)
		if err != nil {
			return nil, err
		}
		if err := s.Cache.Put(ctx, key, snap); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// spawn launches the background revalidation for key.
func (s *StaleWhileRevalidate) spawn(ctx context.Context, req *http.Request, key string) {
	if s.Revalidate != nil && !s.Revalidate.Allow() {
		return
	}
	bg := req.Clone(ctx)
	run := func() { s.revalidate(ctx, bg, key) }
	if s.Track != nil {
		s.Track.Go(run)
		return
	}
	go run()
}

// revalidate refetches key and overwrites the cache entry on success. Every
// failure path is silent: the caller already has its response.
func (s *StaleWhileRevalidate) revalidate(ctx context.Context, req *http.Request, key string) {
	resp, err := s.Fetch(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if !Success(resp) {
		return
	}
	snap, err := store.Capture(resp)
	if err != nil {
		return
	}
	_ = s.Cache.Put(ctx, key, snap)
}
