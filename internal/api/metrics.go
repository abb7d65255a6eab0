package api

import (
	"strconv"

	"github.com/amterp/palette/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paletteMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "palette",
		Name:      "mutations_total",
		Help:      "Total palette mutations, by operation.",
	}, []string{"op"})

	paletteSaveFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "palette",
		Name:      "save_failures_total",
		Help:      "Mutations applied in memory whose save to disk failed.",
	})

	paletteExternalReloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "palette",
		Name:      "external_reloads_total",
		Help:      "Reloads triggered by edits to palettes.json outside the server.",
	})

	wsClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "palette",
		Name:      "ws_clients",
		Help:      "Number of connected WebSocket clients.",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "palette",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests, by method and status code.",
	}, []string{"method", "code"})

	httpRequestDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "palette",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// recordChange counts a palette service change.
func recordChange(change service.Change) {
	if change.Op == service.OpReload {
		paletteExternalReloadsTotal.Inc()
		return
	}
	paletteMutationsTotal.WithLabelValues(string(change.Op)).Inc()
	if !change.Saved {
		paletteSaveFailuresTotal.Inc()
	}
}

func recordRequest(method string, status int, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpRequestDurationSeconds.Observe(seconds)
}
