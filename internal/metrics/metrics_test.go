package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.HTTP.RecordRequest(http.MethodGet, "/entries", http.StatusOK, 10*time.Millisecond)
	m.Moderation.RecordDecision("approved")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "wikiboard_http_requests_total")
	assert.Contains(t, body, "wikiboard_moderation_decisions_total")
}

func TestModerationMetrics_Counts(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewModerationMetrics(registry)
	require.NoError(t, err)

	m.RecordDecision("approved")
	m.RecordDecision("approved")
	m.RecordDecision("rejected")
	m.RecordBanCleared()
	m.RecordDuplicateLike()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.decisions.WithLabelValues("approved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.decisions.WithLabelValues("rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bansCleared))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.duplicateLikes))
}

func TestModerationMetrics_NilIsNoop(t *testing.T) {
	var m *ModerationMetrics
	assert.NotPanics(t, func() {
		m.RecordDecision("approved")
		m.RecordBanCleared()
		m.RecordReport("spam")
	})
}

func TestHTTPMetrics_UnmatchedRoute(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(registry)
	require.NoError(t, err)

	m.RecordRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	expected := `
# HELP wikiboard_http_requests_total Total number of HTTP requests
# TYPE wikiboard_http_requests_total counter
wikiboard_http_requests_total{method="GET",route="unmatched",status_code="404"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.requestsTotal, strings.NewReader(expected)))
}

func TestNewHTTPMetrics_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewHTTPMetrics(registry)
	require.NoError(t, err)

	_, err = NewHTTPMetrics(registry)
	assert.Error(t, err)
}
