package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.RobotsAdded.Inc()
	m.RequestDuration.Observe(0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RobotsAdded))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "robots_added_total 1")
	assert.Contains(t, string(body), "request_duration_seconds_count 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNewIsIndependent(t *testing.T) {
	a, b := New(), New()
	a.RobotsAdded.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RobotsAdded))
}
