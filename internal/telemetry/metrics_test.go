package telemetry_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/pochta/internal/telemetry"
	"github.com/tournevent/pochta/pkg/pochta"
	"github.com/tournevent/pochta/pkg/tracking"
)

var (
	_ pochta.Recorder   = (*telemetry.APIRecorder)(nil)
	_ tracking.Recorder = (*telemetry.APIRecorder)(nil)
)

func TestAPIRecorder_Success(t *testing.T) {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	rec := metrics.Recorder(telemetry.APIPochta)

	rec.RecordRequest("data.tariff", "200", 120*time.Millisecond)
	rec.RecordRequest("data.tariff", "200", 80*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("otpravka", "data.tariff", "200")))
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.APIErrors))
}

func TestAPIRecorder_Errors(t *testing.T) {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())

	metrics.Recorder(telemetry.APIPochta).RecordRequest("orders.create", "400", time.Millisecond)
	metrics.Recorder(telemetry.APITracking).RecordRequest("ticket", "3", time.Millisecond)
	metrics.Recorder(telemetry.APITracking).RecordRequest("history", "ok", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.APIErrors.WithLabelValues("otpravka", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.APIErrors.WithLabelValues("tracking", "3")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.APIErrors))
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		telemetry.NewMetrics(prometheus.NewRegistry())
		telemetry.NewMetrics(prometheus.NewRegistry())
	})
}

func TestNewLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "WARN", "error", "unknown"} {
		logger, err := telemetry.NewLogger(level)
		require.NoError(t, err, level)
		require.NotNil(t, logger)
	}
}
