package strategy

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Keksclan/goNutHoard/store"
)

// memGen is an in-memory store.Generation for executor tests, with pluggable
// failures.
type memGen struct {
	mu     sync.Mutex
	m      map[string]*store.Snapshot
	getErr error
	putErr error
}

func newMemGen() *memGen {
	return &memGen{m: make(map[string]*store.Snapshot)}
}

func (g *memGen) Name() string { return "test-gen" }

func (g *memGen) Get(_ context.Context, key string) (*store.Snapshot, bool, error) {
	if g.getErr != nil {
		return nil, false, g.getErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	snap, ok := g.m[key]
	return snap, ok, nil
}

func (g *memGen) Put(_ context.Context, key string, snap *store.Snapshot) error {
	if g.putErr != nil {
		return g.putErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.m[key] = snap
	return nil
}

func (g *memGen) stored(key string) (*store.Snapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	snap, ok := g.m[key]
	return snap, ok
}

func getReq(t *testing.T, rawurl string) *http.Request {
	t.Helper()
	u, err := url.Parse(rawurl)
	if err != nil {
		t.Fatalf("parse %q: %v", rawurl, err)
	}
	req := &http.Request{Method: http.MethodGet, URL: u, Header: make(http.Header)}
	return req.WithContext(t.Context())
}

// countedFetch returns a fetcher serving status/body and a counter of calls.
func countedFetch(status int, body string) (Fetcher, *atomic.Int32) {
	var calls atomic.Int32
	return func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return &http.Response{
			StatusCode: status,
			Header:     make(http.Header),
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
			Request:    req,
		}, nil
	}, &calls
}

// failingFetch returns a fetcher that always fails with a transport error.
func failingFetch() (Fetcher, *atomic.Int32) {
	var calls atomic.Int32
	return func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("dial tcp: network is unreachable")
	}, &calls
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return string(b)
}

// wgTracker tracks background work on a wait group, mirroring the worker's
// lifetime extension.
type wgTracker struct {
	wg sync.WaitGroup
}

func (t *wgTracker) Go(fn func()) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		fn()
	}()
}

func TestSuccess(t *testing.T) {
	for status, want := range map[int]bool{199: false, 200: true, 204: true, 299: true, 301: false, 404: false, 503: false} {
		if got := Success(&http.Response{StatusCode: status}); got != want {
			t.Fatalf("Success(%d): got %v, want %v", status, got, want)
		}
	}
}

func TestUnavailableIsWellFormed(t *testing.T) {
	resp := Unavailable(getReq(t, "https://app.example/x"))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want 503", resp.StatusCode)
	}
	if resp.Body == nil {
		t.Fatal("synthesized response must carry a body")
	}
	if readBody(t, resp) == "" {
		t.Fatal("expected a non-empty body")
	}
}
