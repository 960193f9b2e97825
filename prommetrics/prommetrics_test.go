package prommetrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/puzzle"
	"github.com/hupe1980/puzzle/testutil"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "test")
	require.NoError(t, err)

	c.RecordExtract(time.Millisecond, nil)
	c.RecordExtract(time.Millisecond, errors.New("boom"))
	c.RecordCompare(time.Microsecond, nil)
	c.RecordPack(time.Microsecond, nil)
	c.RecordUnpack(time.Microsecond, errors.New("corrupt"))
	c.RecordBatch(10, 3, time.Second)

	assert.Equal(t, 1.0, counterValue(t, c.operations.WithLabelValues(opExtract, "ok")))
	assert.Equal(t, 1.0, counterValue(t, c.operations.WithLabelValues(opExtract, "error")))
	assert.Equal(t, 1.0, counterValue(t, c.operations.WithLabelValues(opCompare, "ok")))
	assert.Equal(t, 1.0, counterValue(t, c.operations.WithLabelValues(opUnpack, "error")))
	assert.Equal(t, 1.0, counterValue(t, c.batches))
	assert.Equal(t, 7.0, counterValue(t, c.batchItems.WithLabelValues("ok")))
	assert.Equal(t, 3.0, counterValue(t, c.batchItems.WithLabelValues("error")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_operations_total")
	assert.Contains(t, names, "test_operation_duration_seconds")
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "")
	require.NoError(t, err)
	_, err = New(reg, "")
	assert.Error(t, err)
}

func TestCollector_WithPuzzle(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "puzzle")
	require.NoError(t, err)

	p, err := puzzle.New(puzzle.WithMetricsCollector(c))
	require.NoError(t, err)

	sig, err := p.SignatureFromImage(testutil.NewRNG(1).Scene(160, 160, 4))
	require.NoError(t, err)
	_, err = p.Compare(sig, sig)
	require.NoError(t, err)

	assert.Equal(t, 1.0, counterValue(t, c.operations.WithLabelValues(opExtract, "ok")))
	assert.Equal(t, 1.0, counterValue(t, c.operations.WithLabelValues(opCompare, "ok")))
}
