// Package prommetrics exports puzzle operation metrics to Prometheus.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/puzzle"
)

const (
	opExtract = "extract"
	opCompare = "compare"
	opPack    = "pack"
	opUnpack  = "unpack"
)

// Collector implements puzzle.MetricsCollector on Prometheus metrics.
type Collector struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	batches    prometheus.Counter
	batchItems *prometheus.CounterVec
}

// New creates a Collector and registers its metrics with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "puzzle"
	}

	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total signature operations by type and outcome",
		}, []string{"op", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of signature operations",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"op"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total batch extractions completed",
		}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Sources processed by batch extractions",
		}, []string{"status"}),
	}

	for _, col := range []prometheus.Collector{c.operations, c.latency, c.batches, c.batchItems} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) record(op string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.operations.WithLabelValues(op, status).Inc()
	c.latency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordExtract implements puzzle.MetricsCollector.
func (c *Collector) RecordExtract(duration time.Duration, err error) {
	c.record(opExtract, duration, err)
}

// RecordCompare implements puzzle.MetricsCollector.
func (c *Collector) RecordCompare(duration time.Duration, err error) {
	c.record(opCompare, duration, err)
}

// RecordPack implements puzzle.MetricsCollector.
func (c *Collector) RecordPack(duration time.Duration, err error) {
	c.record(opPack, duration, err)
}

// RecordUnpack implements puzzle.MetricsCollector.
func (c *Collector) RecordUnpack(duration time.Duration, err error) {
	c.record(opUnpack, duration, err)
}

// RecordBatch implements puzzle.MetricsCollector.
func (c *Collector) RecordBatch(count, failed int, _ time.Duration) {
	c.batches.Inc()
	c.batchItems.WithLabelValues("ok").Add(float64(count - failed))
	c.batchItems.WithLabelValues("error").Add(float64(failed))
}

var _ puzzle.MetricsCollector = (*Collector)(nil)
