// Package metrics exposes Prometheus counters for the interception layer:
// classifier dispositions, network fetches per strategy, cache hits and
// misses, and lifecycle outcomes. All observation methods are safe on a nil
// *Set so metrics stay strictly opt-in.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Set bundles the collectors registered for one worker.
type Set struct {
	dispositions *prometheus.CounterVec
	fetches      *prometheus.CounterVec
	cacheReads   *prometheus.CounterVec
	installs     *prometheus.CounterVec
	activations  prometheus.Counter
}

// New creates and registers the collectors on reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Set {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &Set{
		dispositions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nuthoard",
			Name:      "dispositions_total",
			Help:      "Intercepted requests by classifier disposition.",
		}, []string{"disposition"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nuthoard",
			Name:      "network_fetches_total",
			Help:      "Network fetches by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		cacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nuthoard",
			Name:      "cache_reads_total",
			Help:      "Cache lookups by strategy and result.",
		}, []string{"strategy", "result"}),
		installs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nuthoard",
			Name:      "installs_total",
			Help:      "Install attempts by result.",
		}, []string{"result"}),
		activations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nuthoard",
			Name:      "activations_total",
			Help:      "Completed activations.",
		}),
	}
	reg.MustRegister(s.dispositions, s.fetches, s.cacheReads, s.installs, s.activations)
	return s
}

// ObserveDisposition counts one classified request.
func (s *Set) ObserveDisposition(disposition string) {
	if s == nil {
		return
	}
	s.dispositions.WithLabelValues(disposition).Inc()
}

// ObserveFetch counts one network fetch for the given strategy.
// outcome is "success", "status_error" or "transport_error".
func (s *Set) ObserveFetch(strategy, outcome string) {
	if s == nil {
		return
	}
	s.fetches.WithLabelValues(strategy, outcome).Inc()
}

// ObserveCacheRead counts one cache lookup for the given strategy.
func (s *Set) ObserveCacheRead(strategy string, hit bool) {
	if s == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	s.cacheReads.WithLabelValues(strategy, result).Inc()
}

// ObserveInstall counts one install attempt.
func (s *Set) ObserveInstall(ok bool) {
	if s == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	s.installs.WithLabelValues(result).Inc()
}

// ObserveActivation counts one completed activation.
func (s *Set) ObserveActivation() {
	if s == nil {
		return
	}
	s.activations.Inc()
}

// InstrumentFetch wraps fetch so every call is counted under strategy. A nil
// Set returns fetch unchanged.
func (s *Set) InstrumentFetch(strategy string, fetch func(*http.Request) (*http.Response, error)) func(*http.Request) (*http.Response, error) {
	if s == nil {
		return fetch
	}
	return func(req *http.Request) (*http.Response, error) {
		resp, err := fetch(req)
		switch {
		case err != nil:
			s.ObserveFetch(strategy, "transport_error")
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			s.ObserveFetch(strategy, "success")
		default:
			s.ObserveFetch(strategy, "status_error")
		}
		return resp, err
	}
}
