package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the data-layer counters. A nil *Metrics is a valid no-op
// receiver so library code never needs a registry.
type Metrics struct {
    CacheHits    *prometheus.CounterVec
    CacheMisses  *prometheus.CounterVec
    RemoteCalls  *prometheus.CounterVec
    RemoteErrors *prometheus.CounterVec
}

// New registers the counters on the default registry. Call once per process.
func New() *Metrics {
    return &Metrics{
        CacheHits: promauto.NewCounterVec(
            prometheus.CounterOpts{
                Name: "stockdata_cache_hits_total",
                Help: "Cache hits by resource kind",
            },
            []string{"resource"},
        ),
        CacheMisses: promauto.NewCounterVec(
            prometheus.CounterOpts{
                Name: "stockdata_cache_misses_total",
                Help: "Cache misses by resource kind",
            },
            []string{"resource"},
        ),
        RemoteCalls: promauto.NewCounterVec(
            prometheus.CounterOpts{
                Name: "stockdata_remote_calls_total",
                Help: "Outbound provider calls by source",
            },
            []string{"source"},
        ),
        RemoteErrors: promauto.NewCounterVec(
            prometheus.CounterOpts{
                Name: "stockdata_remote_errors_total",
                Help: "Failed provider calls by source",
            },
            []string{"source"},
        ),
    }
}

// Hit records a cache hit for a resource kind.
func (m *Metrics) Hit(resource string) {
    if m != nil {
        m.CacheHits.WithLabelValues(resource).Inc()
    }
}

// Miss records a cache miss for a resource kind.
func (m *Metrics) Miss(resource string) {
    if m != nil {
        m.CacheMisses.WithLabelValues(resource).Inc()
    }
}

// Call records one outbound provider call.
func (m *Metrics) Call(source string) {
    if m != nil {
        m.RemoteCalls.WithLabelValues(source).Inc()
    }
}

// Failure records one failed provider call.
func (m *Metrics) Failure(source string) {
    if m != nil {
        m.RemoteErrors.WithLabelValues(source).Inc()
    }
}
