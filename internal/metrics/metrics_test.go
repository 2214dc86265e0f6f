package metrics_test

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/facewatch/attendance/internal/metrics"
)

func TestAttendanceOutcomesTotal_IncrementsByLabel(t *testing.T) {
	before := testutil.ToFloat64(metrics.AttendanceOutcomesTotal.WithLabelValues("created"))
	metrics.AttendanceOutcomesTotal.WithLabelValues("created").Inc()
	after := testutil.ToFloat64(metrics.AttendanceOutcomesTotal.WithLabelValues("created"))
	require.Equal(t, before+1, after)
}

func TestHandler_ServesPrometheusExposition(t *testing.T) {
	metrics.ActiveCameras.Set(3)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "facewatch_active_cameras 3")
}
