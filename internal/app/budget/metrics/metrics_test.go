package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())
	m.IncrementStatusOutcome("warn")
	m.IncrementStatusOutcome("warn")
	m.IncrementDecision("block")
	m.IncrementStoreError("trips")
	m.ObserveEvaluateLatency("status", 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusOutcome.WithLabelValues("warn")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("block")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("trips")))
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.IncrementStatusOutcome("ok")
		m.IncrementDecision("allow")
		m.IncrementStoreError("profiles")
		m.ObserveEvaluateLatency("usage", time.Second)
	})
}
