package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_TracksHubActivity(t *testing.T) {
	stored := 3
	m := New(func() int { return stored })

	m.ListenerAdded()
	m.ListenerAdded()
	m.ListenerRemoved()
	m.EventPublished(4, 1)
	m.EventPublished(2, 0)

	require.Equal(t, 1.0, testutil.ToFloat64(m.listeners))
	require.Equal(t, 2.0, testutil.ToFloat64(m.published))
	require.Equal(t, 6.0, testutil.ToFloat64(m.delivered))
	require.Equal(t, 1.0, testutil.ToFloat64(m.evicted))
	require.Equal(t, 3.0, testutil.ToFloat64(m.history))

	stored = 5
	require.Equal(t, 5.0, testutil.ToFloat64(m.history))
}

func TestMetrics_Handler(t *testing.T) {
	m := New(func() int { return 0 })
	m.ListenerAdded()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "relay_listeners 1")
	require.Contains(t, string(body), "relay_history_messages 0")
}
