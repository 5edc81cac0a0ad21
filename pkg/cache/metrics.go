package cache

import "github.com/prometheus/client_golang/prometheus"

// Key kind labels used on the cache counters.
const (
	keyKindGUID          = "guid"
	keyKindQualifiedName = "qualified_name"
	keyKindName          = "name"
)

// Metrics collects identity cache counters. Every method is nil-safe, so a
// cache constructed without WithMetrics pays nothing.
type Metrics struct {
	Hits      *prometheus.CounterVec
	Misses    *prometheus.CounterVec
	Refreshes *prometheus.CounterVec
}

// NewMetrics creates the cache counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Hits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catalog",
				Subsystem: "identity_cache",
				Name:      "hits_total",
				Help:      "Lookups answered from the local indexes.",
			},
			[]string{"cache", "key"},
		),
		Misses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catalog",
				Subsystem: "identity_cache",
				Name:      "misses_total",
				Help:      "Lookups that did not hit the local indexes.",
			},
			[]string{"cache", "key"},
		),
		Refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catalog",
				Subsystem: "identity_cache",
				Name:      "refreshes_total",
				Help:      "Remote lookups issued to populate local misses.",
			},
			[]string{"cache", "key"},
		),
	}
	reg.MustRegister(m.Hits, m.Misses, m.Refreshes)
	return m
}

func (m *Metrics) hit(cache, key string) {
	if m == nil {
		return
	}
	m.Hits.WithLabelValues(cache, key).Inc()
}

func (m *Metrics) miss(cache, key string) {
	if m == nil {
		return
	}
	m.Misses.WithLabelValues(cache, key).Inc()
}

func (m *Metrics) refresh(cache, key string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(cache, key).Inc()
}
