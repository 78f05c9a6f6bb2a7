package physim

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    tickHistogram prometheus.Histogram
//	    pairGauge     prometheus.Gauge
//	}
//
//	func (p *PrometheusCollector) RecordUpdate(duration time.Duration, stats physim.UpdateStats, err error) {
//	    p.tickHistogram.Observe(duration.Seconds())
//	    p.pairGauge.Set(float64(stats.Pairs))
//	}
type MetricsCollector interface {
	// RecordUpdate is called after each tick.
	// stats describes the work done, err is nil if successful.
	RecordUpdate(duration time.Duration, stats UpdateStats, err error)

	// RecordCreateBody is called after each body creation.
	RecordCreateBody(err error)

	// RecordDeleteBody is called after each body deletion.
	// found is false when the id was stale.
	RecordDeleteBody(found bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordUpdate(time.Duration, UpdateStats, error) {}
func (NoopMetricsCollector) RecordCreateBody(error)                         {}
func (NoopMetricsCollector) RecordDeleteBody(bool)                          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	UpdateCount      atomic.Int64
	UpdateErrors     atomic.Int64
	UpdateTotalNanos atomic.Int64
	PairsTotal       atomic.Int64
	DispatchedTotal  atomic.Int64
	ContactsTotal    atomic.Int64
	CreateCount      atomic.Int64
	CreateErrors     atomic.Int64
	DeleteCount      atomic.Int64
	DeleteMisses     atomic.Int64
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, stats UpdateStats, err error) {
	b.UpdateCount.Add(1)
	b.UpdateTotalNanos.Add(duration.Nanoseconds())
	b.PairsTotal.Add(int64(stats.Pairs))
	b.DispatchedTotal.Add(int64(stats.Dispatched))
	b.ContactsTotal.Add(int64(stats.Contacts))
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordCreateBody implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreateBody(err error) {
	b.CreateCount.Add(1)
	if err != nil {
		b.CreateErrors.Add(1)
	}
}

// RecordDeleteBody implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDeleteBody(found bool) {
	b.DeleteCount.Add(1)
	if !found {
		b.DeleteMisses.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		UpdateCount:     b.UpdateCount.Load(),
		UpdateErrors:    b.UpdateErrors.Load(),
		UpdateAvgNanos:  b.getAvgUpdateNanos(),
		PairsTotal:      b.PairsTotal.Load(),
		DispatchedTotal: b.DispatchedTotal.Load(),
		ContactsTotal:   b.ContactsTotal.Load(),
		CreateCount:     b.CreateCount.Load(),
		CreateErrors:    b.CreateErrors.Load(),
		DeleteCount:     b.DeleteCount.Load(),
		DeleteMisses:    b.DeleteMisses.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgUpdateNanos() int64 {
	count := b.UpdateCount.Load()
	if count == 0 {
		return 0
	}
	return b.UpdateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	UpdateCount     int64
	UpdateErrors    int64
	UpdateAvgNanos  int64
	PairsTotal      int64
	DispatchedTotal int64
	ContactsTotal   int64
	CreateCount     int64
	CreateErrors    int64
	DeleteCount     int64
	DeleteMisses    int64
}
