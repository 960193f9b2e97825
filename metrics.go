package puzzle

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// prommetrics provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordExtract is called after each signature extraction.
	// duration covers decoding and extraction, err is nil if successful.
	RecordExtract(duration time.Duration, err error)

	// RecordCompare is called after each signature comparison.
	RecordCompare(duration time.Duration, err error)

	// RecordPack is called after each pack operation.
	RecordPack(duration time.Duration, err error)

	// RecordUnpack is called after each unpack operation.
	RecordUnpack(duration time.Duration, err error)

	// RecordBatch is called after each batch extraction.
	// count is the number of sources attempted, failed is the number that failed.
	RecordBatch(count, failed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordExtract(time.Duration, error)  {}
func (NoopMetricsCollector) RecordCompare(time.Duration, error)  {}
func (NoopMetricsCollector) RecordPack(time.Duration, error)     {}
func (NoopMetricsCollector) RecordUnpack(time.Duration, error)   {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ExtractCount      atomic.Int64
	ExtractErrors     atomic.Int64
	ExtractTotalNanos atomic.Int64
	CompareCount      atomic.Int64
	CompareErrors     atomic.Int64
	PackCount         atomic.Int64
	PackErrors        atomic.Int64
	UnpackCount       atomic.Int64
	UnpackErrors      atomic.Int64
	BatchCount        atomic.Int64
	BatchItems        atomic.Int64
	BatchFailed       atomic.Int64
}

// RecordExtract implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExtract(duration time.Duration, err error) {
	b.ExtractCount.Add(1)
	b.ExtractTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ExtractErrors.Add(1)
	}
}

// RecordCompare implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompare(duration time.Duration, err error) {
	b.CompareCount.Add(1)
	if err != nil {
		b.CompareErrors.Add(1)
	}
}

// RecordPack implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPack(duration time.Duration, err error) {
	b.PackCount.Add(1)
	if err != nil {
		b.PackErrors.Add(1)
	}
}

// RecordUnpack implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnpack(duration time.Duration, err error) {
	b.UnpackCount.Add(1)
	if err != nil {
		b.UnpackErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(count, failed int, duration time.Duration) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(count))
	b.BatchFailed.Add(int64(failed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ExtractCount:    b.ExtractCount.Load(),
		ExtractErrors:   b.ExtractErrors.Load(),
		ExtractAvgNanos: b.getAvgExtractNanos(),
		CompareCount:    b.CompareCount.Load(),
		CompareErrors:   b.CompareErrors.Load(),
		PackCount:       b.PackCount.Load(),
		PackErrors:      b.PackErrors.Load(),
		UnpackCount:     b.UnpackCount.Load(),
		UnpackErrors:    b.UnpackErrors.Load(),
		BatchCount:      b.BatchCount.Load(),
		BatchItems:      b.BatchItems.Load(),
		BatchFailed:     b.BatchFailed.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgExtractNanos() int64 {
	count := b.ExtractCount.Load()
	if count == 0 {
		return 0
	}
	return b.ExtractTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ExtractCount    int64
	ExtractErrors   int64
	ExtractAvgNanos int64
	CompareCount    int64
	CompareErrors   int64
	PackCount       int64
	PackErrors      int64
	UnpackCount     int64
	UnpackErrors    int64
	BatchCount      int64
	BatchItems      int64
	BatchFailed     int64
}
