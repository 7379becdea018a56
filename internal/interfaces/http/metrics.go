package httpinterface

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors of the daemon.
type Metrics struct {
	OrdersCreated    prometheus.Counter
	QuotesCommitted  prometheus.Counter
	QuotesRevealed   prometheus.Counter
	EscrowsLocked    prometheus.Counter
	DisputesOpened   prometheus.Counter
	DisputesResolved prometheus.Counter
	Slashes          prometheus.Counter

	requestDuration *prometheus.HistogramVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// NewMetrics returns the daemon collectors, registering them on the default
// registry the first time.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = newMetrics()
	})
	return sharedMetrics
}

func newMetrics() *Metrics {
	return &Metrics{
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zetad_orders_created_total",
			Help: "Number of order intents created.",
		}),
		QuotesCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zetad_quotes_committed_total",
			Help: "Number of sealed quote commitments stored.",
		}),
		QuotesRevealed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zetad_quotes_revealed_total",
			Help: "Number of quotes revealed.",
		}),
		EscrowsLocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zetad_escrows_locked_total",
			Help: "Number of escrow locks created on acceptance.",
		}),
		DisputesOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zetad_disputes_opened_total",
			Help: "Number of buyer claims opened.",
		}),
		DisputesResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zetad_disputes_resolved_total",
			Help: "Number of disputes resolved.",
		}),
		Slashes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zetad_slashes_total",
			Help: "Number of fault slashes executed.",
		}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name: "zetad_http_request_duration_seconds",
			Help: "Duration of the handled HTTP requests.",
		}, []string{"method", "status"}),
	}
}

func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		m.requestDuration.WithLabelValues(
			r.Method, strconv.Itoa(ww.Status()),
		).Observe(time.Since(start).Seconds())
	})
}
