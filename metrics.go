package hcache

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus instruments mirroring a Cache's Stats plus
// eviction and occupancy counters. It is grounded directly on
// GabrielNunesIT/go-libs/metrics.CacheMetrics (same counter/gauge names:
// <name>_hits_total, <name>_misses_total, <name>_evictions_total,
// <name>_size), but rather than wrapping an external cache through a
// narrow interface like go-libs' InstrumentedCache does, it is wired
// straight into the Core's own eviction callback chain and Stats snapshot
// via WithMetrics, since the Core already knows these counts exactly.
type CacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	size      prometheus.Gauge
}

// NewCacheMetrics creates and registers a CacheMetrics instrument set on
// reg, prefixed with name.
func NewCacheMetrics(reg prometheus.Registerer, name string) *CacheMetrics {
	cm := &CacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: name + "_hits_total",
			Help: "Total number of cache hits.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: name + "_misses_total",
			Help: "Total number of cache misses.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: name + "_evictions_total",
			Help: "Total number of cache evictions (capacity, TTL expiry, resize shrink).",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: name + "_size",
			Help: "Current number of live entries in the cache.",
		}),
	}
	reg.MustRegister(cm.hits, cm.misses, cm.evictions, cm.size)
	return cm
}

// recordEviction increments the evictions counter. Called from the core's
// trace hook, once per evicted node (capacity, expiry or resize shrink;
// not for Remove, overwrite or Clear) regardless of whether the user's own
// callback (if any) also ran.
func (cm *CacheMetrics) recordEviction() {
	cm.evictions.Inc()
}

// observeStats mirrors a Stats snapshot's counters onto the hits/misses
// instruments. Prometheus counters only go up, matching Stats' own
// monotonicity (spec P5) outside of Clear.
func (cm *CacheMetrics) observeStats(s Stats, prevHits, prevMisses uint64) {
	if s.Hits > prevHits {
		cm.hits.Add(float64(s.Hits - prevHits))
	}
	if s.Misses > prevMisses {
		cm.misses.Add(float64(s.Misses - prevMisses))
	}
}

// setSize updates the occupancy gauge.
func (cm *CacheMetrics) setSize(n int) {
	cm.size.Set(float64(n))
}

func newMetricsTrace[K comparable, V any](cm *CacheMetrics) traceFunc[K, V] {
	return func(_ evictionKind, _ K, _ V, _ error) {
		cm.recordEviction()
	}
}
