package observability

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dicesim/internal/session"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.AddTrials(100)
	m.AddTrials(50)
	m.RunFinished(RunCompleted)
	m.RunFinished(RunCancelled)
	m.RunFinished(RunCompleted)
	m.QueryAnswered(session.KindRange)
	m.QueryRejected("invalid_range")
	m.ObserveSampling(15 * time.Millisecond)

	assert.Equal(t, 150.0, testutil.ToFloat64(m.trialsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.runsTotal.WithLabelValues(RunCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues(RunCancelled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queriesTotal.WithLabelValues("range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejectedTotal.WithLabelValues("invalid_range")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.samplingSeconds))
}

func TestMetrics_SatisfiesObserver(t *testing.T) {
	var _ session.Observer = NewMetrics()
}

func TestMetricsServer_ServesRegistry(t *testing.T) {
	m := NewMetrics()
	m.AddTrials(7)

	srv, err := NewMetricsServer("127.0.0.1:0", m)
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()
	defer func() {
		srv.Stop()
		assert.NoError(t, <-done)
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "dicesim_trials_total 7"))
}
