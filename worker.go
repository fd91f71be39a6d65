package gonuthoard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Keksclan/goNutHoard/classify"
	"github.com/Keksclan/goNutHoard/contextx"
	"github.com/Keksclan/goNutHoard/interceptors"
	"github.com/Keksclan/goNutHoard/internal/core"
	"github.com/Keksclan/goNutHoard/metrics"
	"github.com/Keksclan/goNutHoard/origins"
	"github.com/Keksclan/goNutHoard/store"
	"github.com/Keksclan/goNutHoard/strategy"
)

// ErrNotInstalled is returned by Activate when no successful installation has
// completed: a failed install must leave the previous generation current.
var ErrNotInstalled = errors.New("nuthoard: worker not installed")

// Syncer is the external synchronization routine behind the sync-expenses
// deferred-sync tag. It reads durable pending-write state and transmits it,
// with its own retry policy; the interception layer only triggers it.
type Syncer interface {
	SyncExpenses(ctx context.Context) error
}

// Notifier displays push notifications and reacts to notification clicks.
// It shares no state with the caching core.
type Notifier interface {
	Push(ctx context.Context, payload []byte) error
	NotificationClick(ctx context.Context, action string) error
}

// Worker is the composed interception layer: classifier, strategy executors,
// cache store and middleware chain behind a single [http.RoundTripper].
//
// A Worker is built once per deployment with an immutable generation name:
//
//	w, err := nuthoard.NewWorker(
//		nuthoard.WithGeneration("app-v42"),
//		nuthoard.WithPrecacheManifest("https://app.example/", "https://app.example/style.css"),
//		nuthoard.WithOfflinePage("https://app.example/offline.html"),
//		nuthoard.WithRecovery(),
//	)
//
// Install precaches the manifest, Activate purges stale generations, and
// RoundTrip serves intercepted traffic.
type Worker struct {
	generation string
	manifest   []string
	offlineURL string
	offlineKey string

	st      store.Store
	cls     classify.Classifier
	trusted *origins.Set

	base  http.RoundTripper // raw transport, used by ignored requests
	fetch strategy.Fetcher  // network leg for strategies (breaker-wrapped)
	chain http.RoundTripper // middleware chain around the dispatcher

	m          *metrics.Set
	revalidate strategy.Gate
	syncer     Syncer
	notifier   Notifier

	onInstalled func()
	installed   atomic.Bool

	genMu   sync.Mutex
	current store.Generation

	bg sync.WaitGroup

	clients Clients
}

// NewWorker creates a Worker by applying the supplied functional [Option]
// values. Middleware execution order is determined by fixed priority levels,
// not by the order options are passed.
func NewWorker(opts ...Option) (*Worker, error) {
	cfg := config{
		generation: DefaultGeneration,
		transport:  http.DefaultTransport,
	}
	for _, o := range opts {
		o(&cfg)
	}

	st := cfg.st
	if st == nil {
		var err error
		st, err = buildStore(&cfg)
		if err != nil {
			return nil, err
		}
	}

	trusted, err := origins.New(cfg.trusted...)
	if err != nil {
		return nil, err
	}

	w := &Worker{
		generation:  cfg.generation,
		manifest:    cfg.manifest,
		offlineURL:  cfg.offlineURL,
		st:          st,
		cls:         classify.Classifier{Trusted: trusted},
		trusted:     trusted,
		base:        cfg.transport,
		revalidate:  cfg.revalidate,
		syncer:      cfg.syncer,
		notifier:    cfg.notifier,
		onInstalled: cfg.onInstalled,
	}
	if cfg.offlineURL != "" {
		w.offlineKey = http.MethodGet + " " + cfg.offlineURL
	}
	if cfg.metricsOn {
		w.m = metrics.New(cfg.metricsReg)
	}

	fetch := w.base.RoundTrip
	if cfg.breaker != nil {
		fetch = cfg.breaker.Wrap(fetch)
	}
	w.fetch = fetch

	dispatch := interceptors.RoundTripperFunc(w.dispatch)
	w.chain = core.Compose(dispatch, cfg.mws.Build())

	return w, nil
}

// buildStore assembles the store from the L1/L2 options. When both are
// configured they are tiered; with neither, a bounded L1 is used.
func buildStore(cfg *config) (store.Store, error) {
	maxCost := cfg.l1MaxCost
	if maxCost <= 0 {
		maxCost = 10_000
	}
	l1, err := store.NewL1(maxCost)
	if err != nil {
		return nil, fmt.Errorf("nuthoard: build L1 store: %w", err)
	}
	if cfg.l2 != nil {
		return store.NewTiered(l1, cfg.l2), nil
	}
	return l1, nil
}

// RoundTrip implements http.RoundTripper. Requests the classifier ignores
// proceed through the default transport untouched; everything else runs
// through the middleware chain into the matching strategy executor.
func (w *Worker) RoundTrip(req *http.Request) (*http.Response, error) {
	d := w.cls.Classify(req)
	w.m.ObserveDisposition(d.String())
	if d == classify.Ignore {
		return w.base.RoundTrip(req)
	}

	req = req.Clone(contextx.WithDisposition(req.Context(), d.String()))
	return w.chain.RoundTrip(req)
}

// dispatch is the innermost round-tripper: it routes the request to its
// strategy executor against the current generation.
func (w *Worker) dispatch(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	gen, err := w.gen(ctx)
	if err != nil {
		return nil, err
	}

	switch w.cls.Classify(req) {
	case classify.CacheFirst:
		ex := &strategy.CacheFirst{
			Cache:   w.observed(gen, "cache_first"),
			Fetch:   w.m.InstrumentFetch("cache_first", w.fetch),
			Trusted: w.trusted,
		}
		return ex.Execute(ctx, req)
	case classify.NetworkFirst:
		ex := &strategy.NetworkFirst{
			Cache:      w.observed(gen, "network_first"),
			Fetch:      w.m.InstrumentFetch("network_first", w.fetch),
			OfflineKey: w.offlineKey,
		}
		return ex.Execute(ctx, req)
	default:
		ex := &strategy.StaleWhileRevalidate{
			Cache:      w.observed(gen, "stale_while_revalidate"),
			Fetch:      w.m.InstrumentFetch("stale_while_revalidate", w.fetch),
			Track:      tracker{wg: &w.bg},
			Revalidate: w.revalidate,
		}
		return ex.Execute(ctx, req)
	}
}

// gen returns the handle to the current generation, opening it on first use.
func (w *Worker) gen(ctx context.Context) (store.Generation, error) {
	w.genMu.Lock()
	defer w.genMu.Unlock()
	if w.current == nil {
		g, err := w.st.Open(ctx, w.generation)
		if err != nil {
			return nil, err
		}
		w.current = g
	}
	return w.current, nil
}

// Install opens the current generation and precaches every manifest URL plus
// the offline placeholder. Installation is all-or-nothing: every URL is
// fetched before anything is stored, and any fetch failure (or non-success
// status) aborts the install, leaving the previous generation current.
func (w *Worker) Install(ctx context.Context) error {
	gen, err := w.gen(ctx)
	if err != nil {
		return err
	}

	urls := w.manifest
	if w.offlineURL != "" {
		urls = append(append([]string{}, urls...), w.offlineURL)
	}

	type entry struct {
		key  string
		snap *store.Snapshot
	}
	entries := make([]entry, 0, len(urls))

	for _, u := range urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			w.m.ObserveInstall(false)
			return fmt.Errorf("nuthoard: install: bad manifest url %q: %w", u, err)
		}
		resp, err := w.fetch(req)
		if err != nil {
			w.m.ObserveInstall(false)
			return fmt.Errorf("nuthoard: install: precache %q: %w", u, err)
		}
		if !strategy.Success(resp) {
			resp.Body.Close()
			w.m.ObserveInstall(false)
			return fmt.Errorf("nuthoard: install: precache %q: status %d", u, resp.StatusCode)
		}
		snap, err := store.Capture(resp)
		resp.Body.Close()
		if err != nil {
			w.m.ObserveInstall(false)
			return fmt.Errorf("nuthoard: install: precache %q: %w", u, err)
		}
		key, _ := store.Key(req)
		entries = append(entries, entry{key: key, snap: snap})
	}

	for _, e := range entries {
		if err := gen.Put(ctx, e.key, e.snap); err != nil {
			w.m.ObserveInstall(false)
			return fmt.Errorf("nuthoard: install: store %q: %w", e.key, err)
		}
	}

	w.installed.Store(true)
	w.m.ObserveInstall(true)
	if w.onInstalled != nil {
		w.onInstalled()
	}
	return nil
}

// Installed reports whether a successful installation has completed.
func (w *Worker) Installed() bool {
	return w.installed.Load()
}

// Activate purges every generation other than the current one and claims all
// registered client connections. It fails with ErrNotInstalled until Install
// has succeeded.
func (w *Worker) Activate(ctx context.Context) error {
	if !w.installed.Load() {
		return ErrNotInstalled
	}
	if err := w.st.DeleteAllExcept(ctx, w.generation); err != nil {
		return fmt.Errorf("nuthoard: activate: %w", err)
	}
	w.clients.Claim()
	w.m.ObserveActivation()
	return nil
}

// ClientRegistry returns the registry of client connections this worker
// controls.
func (w *Worker) ClientRegistry() *Clients {
	return &w.clients
}

// Wait blocks until all tracked background revalidations have completed.
func (w *Worker) Wait() {
	w.bg.Wait()
}

// tracker extends the lifetime of background work past the triggering
// request by registering it with the worker's wait group.
type tracker struct {
	wg *sync.WaitGroup
}

func (t tracker) Go(fn func()) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		fn()
	}()
}

// MetricsHandler returns an http.Handler that serves Prometheus metrics.
func (w *Worker) MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// observed wraps gen so that reads are counted under strategy.
func (w *Worker) observed(gen store.Generation, strategyName string) store.Generation {
	if w.m == nil {
		return gen
	}
	return &observedGen{Generation: gen, m: w.m, strategy: strategyName}
}

// observedGen counts cache reads on behalf of the metrics set.
type observedGen struct {
	store.Generation
	m        *metrics.Set
	strategy string
}

func (g *observedGen) Get(ctx context.Context, key string) (*store.Snapshot, bool, error) {
	snap, hit, err := g.Generation.Get(ctx, key)
	if err == nil {
		g.m.ObserveCacheRead(g.strategy, hit)
	}
	return snap, hit, err
}
