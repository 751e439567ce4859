// Package metrics exposes the service's Prometheus series.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taxa"

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Outbound iNaturalist API calls by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of outbound iNaturalist API calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	resolveOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolve_total",
		Help:      "Taxon resolutions by outcome (ok, not_found, invalid, upstream_error).",
	}, []string{"outcome"})

	observationsServed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "observations_served_total",
		Help:      "Observations returned to clients after filtering and truncation.",
	})
)

func ObserveUpstream(endpoint string, d time.Duration, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	upstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func CountResolve(outcome string) {
	resolveOutcomes.WithLabelValues(outcome).Inc()
}

func CountObservationsServed(n int) {
	observationsServed.Add(float64(n))
}

// Handler serves the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
