package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, registry *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			for _, label := range metric.GetLabel() {
				key += "|" + label.GetValue()
			}
			switch {
			case metric.GetCounter() != nil:
				values[key] = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				values[key] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return values
}

func TestTrackerRecordsOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	require.NoError(t, metrics.Track("report:sales_export").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, metrics.Track("report:sales_export").End(boom), boom)

	values := gather(t, registry)
	assert.Equal(t, float64(1), values["salesdesk_jobs_total|report:sales_export|success"])
	assert.Equal(t, float64(1), values["salesdesk_jobs_total|report:sales_export|failure"])
	assert.Equal(t, float64(1), values["salesdesk_jobs_failures_total|report:sales_export"])
	assert.Equal(t, float64(2), values["salesdesk_job_duration_seconds|report:sales_export"])
}

func TestObserveExportIgnoresEmptyFiles(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	metrics.ObserveExport("sales_report", 0)
	metrics.ObserveExport("sales_report", 2048)

	assert.Equal(t, float64(1), gather(t, registry)["salesdesk_job_export_bytes|sales_report"])
}

func TestNilMetricsTracker(t *testing.T) {
	var metrics *Metrics
	boom := errors.New("boom")
	assert.ErrorIs(t, metrics.Track("x").End(boom), boom)
	metrics.ObserveExport("x", 10)
}
