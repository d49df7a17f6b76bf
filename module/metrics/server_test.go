package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-slotpool/utils/unittest"
)

// TestServerRoutes checks the server exposes the registered collectors and a health probe.
func TestServerRoutes(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := DefaultSlotPoolMetricsFactory("", registry)
	collector.OnReset(10)
	collector.OnInsertSuccess(1)

	server := NewServer(unittest.Logger(), 0, registry, time.Second)

	t.Run("metrics", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, recorder.Code)

		body := recorder.Body.String()
		require.True(t, strings.Contains(body, "slotpool_slots_default_capacity 10"), body)
		require.True(t, strings.Contains(body, "slotpool_slots_default_live_count 1"), body)
	})

	t.Run("health", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Equal(t, "ok", recorder.Body.String())
	})

	t.Run("method not allowed", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/health", nil))
		require.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
	})
}
