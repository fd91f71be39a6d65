package gonuthoard

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Keksclan/goNutHoard/breaker"
	"github.com/Keksclan/goNutHoard/interceptors"
	"github.com/Keksclan/goNutHoard/ratelimit"
	"github.com/Keksclan/goNutHoard/store"
	"github.com/Keksclan/goNutHoard/tracing"
)

// Option configures a Worker.
type Option func(*config)

// WithGeneration sets the current cache generation name. The name is fixed at
// construction time; a deployment that changes cached content ships a new
// name, and activation purges everything else.
func WithGeneration(name string) Option {
	return func(c *config) {
		c.generation = name
	}
}

// WithPrecacheManifest sets the fixed list of absolute URLs that must be
// successfully fetched and stored during installation. If any entry is
// unreachable the installation fails entirely.
func WithPrecacheManifest(urls ...string) Option {
	return func(c *config) {
		c.manifest = append(c.manifest, urls...)
	}
}

// WithOfflinePage sets the absolute URL of the offline placeholder page. It
// is precached at install time and served when a navigation fails with no
// cached entry.
func WithOfflinePage(url string) Option {
	return func(c *config) {
		c.offlineURL = url
	}
}

// WithTrustedOrigins declares external origins (scheme://host) whose requests
// are eligible for cache-first handling even though they are not part of the
// precache manifest.
func WithTrustedOrigins(origins ...string) Option {
	return func(c *config) {
		c.trusted = append(c.trusted, origins...)
	}
}

// WithCacheL1 configures an in-process L1 store holding at most maxCost
// entries.
func WithCacheL1(maxCost int64) Option {
	return func(c *config) {
		c.l1MaxCost = maxCost
	}
}

// WithCacheL2 configures a Redis-backed L2 store. When combined with
// WithCacheL1 the two are tiered.
func WithCacheL2(addr, password string, db int) Option {
	return func(c *config) {
		c.l2 = store.NewL2(addr, password, db, "")
	}
}

// WithStore injects a fully built store, overriding WithCacheL1/WithCacheL2.
// Intended for tests and custom store implementations.
func WithStore(st store.Store) Option {
	return func(c *config) {
		c.st = st
	}
}

// WithTransport sets the underlying transport used for network fetches and
// for requests the classifier ignores. Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) {
		c.transport = rt
	}
}

// WithRecovery wraps the dispatcher so that a panic inside the transport
// returns a synthesized 503 instead of crashing the process.
func WithRecovery() Option {
	return func(c *config) {
		c.mws.Add(orderRecovery, interceptors.Recovery())
	}
}

// WithRequestID ensures every intercepted request carries a request ID in its
// context and X-Request-Id header.
func WithRequestID() Option {
	return func(c *config) {
		c.mws.Add(orderRequestID, interceptors.RequestID())
	}
}

// WithMiddleware appends a custom middleware to the chain, inside the
// built-in ones.
func WithMiddleware(mw Middleware) Option {
	return func(c *config) {
		c.mws.Add(orderUser, mw)
	}
}

// WithOpenTelemetry records a client span for every intercepted request.
func WithOpenTelemetry(cfg tracing.TracingConfig) Option {
	return func(c *config) {
		c.mws.Add(orderTracing, func(next http.RoundTripper) http.RoundTripper {
			return tracing.RoundTripper(&cfg, next)
		})
	}
}

// WithMetrics registers Prometheus collectors on reg (nil means the default
// registerer) and counts dispositions, fetches, cache reads and lifecycle
// outcomes.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.metricsOn = true
		c.metricsReg = reg
	}
}

// WithRevalidateLimit caps how often stale-while-revalidate launches
// background refreshes. When the bucket is empty the refresh is skipped.
func WithRevalidateLimit(rps float64, burst int) Option {
	return func(c *config) {
		c.revalidate = ratelimit.NewLimiter(rps, burst)
	}
}

// WithBreaker short-circuits network fetches through a circuit breaker; an
// open breaker presents as a transport failure, so strategies degrade to
// cached content exactly as if offline.
func WithBreaker(cfg breaker.Config) Option {
	return func(c *config) {
		c.breaker = breaker.New(cfg)
	}
}

// WithSyncer sets the external synchronization routine invoked when the host
// delivers the sync-expenses tag.
func WithSyncer(s Syncer) Option {
	return func(c *config) {
		c.syncer = s
	}
}

// WithNotifier sets the display collaborator for push and notification-click
// events. The worker shares no caching state with it.
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// WithInstallSignal registers fn to be called once installation succeeds, so
// the host can activate this worker immediately with no waiting period.
func WithInstallSignal(fn func()) Option {
	return func(c *config) {
		c.onInstalled = fn
	}
}
