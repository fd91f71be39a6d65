// Package classify decides, per intercepted request, which caching strategy
// applies. Classification is a pure routing function with no side effects;
// each rule is an exported predicate so the rules can be tested in isolation.
package classify

import (
	"net/http"

	"github.com/Keksclan/goNutHoard/origins"
)

// Disposition is the routing decision for one intercepted request.
type Disposition int

const (
	// Ignore means the request is never touched by caching logic and
	// proceeds through the default transport unmodified.
	Ignore Disposition = iota

	// CacheFirst prefers the cache and falls back to the network on a miss.
	CacheFirst

	// NetworkFirst prefers the network and falls back to the cache, then to
	// the offline placeholder page.
	NetworkFirst

	// StaleWhileRevalidate returns cached content immediately while
	// refreshing the cache in the background.
	StaleWhileRevalidate
)

// String returns the disposition name for logs and metric labels.
func (d Disposition) String() string {
	switch d {
	case Ignore:
		return "ignore"
	case CacheFirst:
		return "cache_first"
	case NetworkFirst:
		return "network_first"
	case StaleWhileRevalidate:
		return "stale_while_revalidate"
	default:
		return "unknown"
	}
}

// Classifier routes intercepted requests to strategies. The zero value routes
// with no trusted external origins.
type Classifier struct {
	// Trusted is the set of external origins eligible for cache-first
	// handling. May be nil.
	Trusted *origins.Set
}

// Classify produces the disposition for req. Rules are evaluated in a fixed
// order and the first match wins:
//
//  1. Ignore anything that is not a plain GET over http(s).
//  2. CacheFirst for trusted external origins and static asset kinds
//     (stylesheets, scripts, fonts, images).
//  3. NetworkFirst for top-level navigations.
//  4. StaleWhileRevalidate for everything else.
func (c *Classifier) Classify(req *http.Request) Disposition {
	if !IsReadOnly(req) || IsInternalScheme(req) {
		return Ignore
	}
	if c.Trusted != nil {
		if _, ok := c.Trusted.Match(req.URL); ok {
			return CacheFirst
		}
	}
	if IsAsset(req) {
		return CacheFirst
	}
	if IsNavigation(req) {
		return NetworkFirst
	}
	return StaleWhileRevalidate
}
