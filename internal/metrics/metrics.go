// Package metrics holds the Prometheus collectors of the read path.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registry served at /metrics.
var Registry = prometheus.NewRegistry()

var (
	// AccessDecisions counts pipeline outcomes by decision
	AccessDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cratedrop",
		Name:      "access_decisions_total",
		Help:      "Total number of crate access decisions",
	}, []string{"decision"}) // decision: "allow", "expired", "password_required", "forbidden"

	// RetrievalFailures counts failures after access was granted
	RetrievalFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cratedrop",
		Name:      "retrieval_failures_total",
		Help:      "Total number of crate retrieval failures",
	}, []string{"stage"}) // stage: "metadata", "content", "stream"

	// BytesServed counts content bytes written to clients
	BytesServed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cratedrop",
		Name:      "bytes_served_total",
		Help:      "Total number of crate content bytes served",
	})

	// CacheLookups counts metadata cache hits and misses
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cratedrop",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Total number of metadata cache lookups",
	}, []string{"result"}) // result: "hit", "miss", "error"

	// Events counts download events by delivery result
	Events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cratedrop",
		Name:      "events_total",
		Help:      "Total number of download events",
	}, []string{"result"}) // result: "recorded", "failed", "dropped"
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		AccessDecisions,
		RetrievalFailures,
		BytesServed,
		CacheLookups,
		Events,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
