package metrics

import (
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue gathers reg and returns the value of the sample matching name
// and labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	metric:
		for _, m := range fam.GetMetric() {
			got := make(map[string]string, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				got[l.GetName()] = l.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestObserveCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(reg)

	s.ObserveDisposition("cache_first")
	s.ObserveDisposition("cache_first")
	s.ObserveFetch("network_first", "transport_error")
	s.ObserveCacheRead("cache_first", true)
	s.ObserveCacheRead("cache_first", false)
	s.ObserveInstall(true)
	s.ObserveInstall(false)
	s.ObserveActivation()

	checks := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"nuthoard_dispositions_total", map[string]string{"disposition": "cache_first"}, 2},
		{"nuthoard_network_fetches_total", map[string]string{"strategy": "network_first", "outcome": "transport_error"}, 1},
		{"nuthoard_cache_reads_total", map[string]string{"strategy": "cache_first", "result": "hit"}, 1},
		{"nuthoard_cache_reads_total", map[string]string{"strategy": "cache_first", "result": "miss"}, 1},
		{"nuthoard_installs_total", map[string]string{"result": "success"}, 1},
		{"nuthoard_installs_total", map[string]string{"result": "failure"}, 1},
		{"nuthoard_activations_total", nil, 1},
	}
	for _, c := range checks {
		if got := counterValue(t, reg, c.name, c.labels); got != c.want {
			t.Fatalf("%s%v: got %v, want %v", c.name, c.labels, got, c.want)
		}
	}
}

func TestNilSetIsSafe(t *testing.T) {
	var s *Set
	s.ObserveDisposition("ignore")
	s.ObserveFetch("cache_first", "success")
	s.ObserveCacheRead("cache_first", true)
	s.ObserveInstall(true)
	s.ObserveActivation()

	fetch := s.InstrumentFetch("cache_first", func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("down")
	})
	if _, err := fetch(nil); err == nil {
		t.Fatal("wrapped fetch must pass the error through")
	}
}

func TestInstrumentFetchOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(reg)

	ok := s.InstrumentFetch("cache_first", func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 200}, nil
	})
	bad := s.InstrumentFetch("cache_first", func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 500}, nil
	})
	down := s.InstrumentFetch("cache_first", func(*http.Request) (*http.Response, error) {
		return nil, errors.New("unreachable")
	})
	if _, err := ok(nil); err != nil {
		t.Fatalf("ok fetch: %v", err)
	}
	if _, err := bad(nil); err != nil {
		t.Fatalf("bad fetch: %v", err)
	}
	if _, err := down(nil); err == nil {
		t.Fatal("down fetch must surface its error")
	}

	for outcome, want := range map[string]float64{"success": 1, "status_error": 1, "transport_error": 1} {
		got := counterValue(t, reg, "nuthoard_network_fetches_total",
			map[string]string{"strategy": "cache_first", "outcome": outcome})
		if got != want {
			t.Fatalf("outcome %q: got %v, want %v", outcome, got, want)
		}
	}
}
