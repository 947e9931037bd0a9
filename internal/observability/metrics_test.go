package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.AlertsPosted.Inc()
	a.EntriesSkipped.WithLabelValues(SkipExcluded).Add(2)

	assert.InDelta(t, 1, testutil.ToFloat64(a.AlertsPosted), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.AlertsPosted), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(a.EntriesSkipped.WithLabelValues(SkipExcluded)), 0)
}
