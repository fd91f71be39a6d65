package gonuthoard

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Keksclan/goNutHoard/breaker"
	"github.com/Keksclan/goNutHoard/internal/core"
	"github.com/Keksclan/goNutHoard/store"
	"github.com/Keksclan/goNutHoard/strategy"
)

// Middleware execution order. Lower values run first (outermost).
const (
	orderRecovery  = 0
	orderRequestID = 10
	orderTracing   = 20
	orderUser      = 50
)

// config holds the internal configuration assembled via functional options.
type config struct {
	generation string
	manifest   []string
	offlineURL string
	trusted    []string

	l1MaxCost int64
	l2        *store.L2
	st        store.Store

	transport   http.RoundTripper
	mws         core.MiddlewareBuilder
	metricsReg  prometheus.Registerer
	metricsOn   bool
	revalidate  strategy.Gate
	breaker     *breaker.Breaker
	syncer      Syncer
	notifier    Notifier
	onInstalled func()
}
