package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountJobsAndTools(t *testing.T) {
	m := NewMetrics()
	m.RecordJob("Study", OutcomeRan)
	m.RecordJob("Study", OutcomeRan)
	m.RecordJob("Study", OutcomeSkipped)
	m.RecordTool("sample", 2*time.Second, false)
	m.RecordTool("draw", time.Second, true)

	require.Equal(t, 2.0, testutil.ToFloat64(m.jobs.WithLabelValues("Study", OutcomeRan)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.jobs.WithLabelValues("Study", OutcomeSkipped)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.toolFailures.WithLabelValues("draw")))
	require.Equal(t, 2, testutil.CollectAndCount(m.toolDuration))

	path := filepath.Join(t.TempDir(), "campaign.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `escape_campaign_jobs_total{kind="Study",outcome="ran"} 2`)
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.RecordJob("Study", OutcomeRan)
	m.RecordTool("sample", time.Second, false)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(true)
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(-1))

	logger, err = NewLogger(false)
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(-1))
}
