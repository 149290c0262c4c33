// Package metrics exposes Prometheus instrumentation for the engine and
// its HTTP boundary.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "callsheet"

// Metrics bundles every collector the service registers.
type Metrics struct {
	ResponsesRecorded *prometheus.CounterVec
	ContactsAdded     prometheus.Counter
	TargetsSet        prometheus.Counter
	BulkReadds        prometheus.Counter
	StoreTimeouts     prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ResponsesRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_recorded_total",
			Help:      "Response events appended, by kind.",
		}, []string{"kind"}),
		ContactsAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contacts_added_total",
			Help:      "Explicit contact adds and re-adds that took effect.",
		}),
		TargetsSet: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "targets_set_total",
			Help:      "Daily target upserts.",
		}),
		BulkReadds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_readds_total",
			Help:      "Contacts re-added to a day by bulk add.",
		}),
		StoreTimeouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_unavailable_total",
			Help:      "Operations that failed because the store was unavailable.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
