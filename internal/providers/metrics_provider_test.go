package providers

import (
	"lecturebot/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGauges struct {
	subjects int
	entries  int
}

func (g fixedGauges) SubjectCount() int { return g.subjects }
func (g fixedGauges) EntryCount() int   { return g.entries }

func isolatedRegistry(t *testing.T) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	prevReg, prevGather := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGather
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits(CatalogCacheName)
	m.IncCacheMisses(TokenCacheName)
	m.ObservePersistenceDuration(time.Millisecond)
	m.IncUpdates("command")
	m.IncErrors("not_found")
	m.IncDeliveries("ok")

	RegisterCatalogGauges(conf, fixedGauges{})
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	isolatedRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

// counterValue sums a gathered counter family, optionally filtered by one label.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if label == "" || (lp.GetName() == label && lp.GetValue() == value) {
					total += metric.GetCounter().GetValue()
					break
				}
			}
			if label == "" && len(metric.GetLabel()) == 0 {
				total += metric.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := isolatedRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)

	m.IncRequestsTotal("/catalog", 200)
	m.IncRequestsTotal("/catalog", 404)
	m.ObserveRequestDuration("/catalog", 5*time.Millisecond)
	m.IncCacheHits(CatalogCacheName)
	m.IncCacheMisses(TokenCacheName)
	m.IncCacheMisses(TokenCacheName)
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.IncUpdates("callback")
	m.IncUpdates("callback")
	m.IncErrors("unauthorized")
	m.IncDeliveries("failed")

	assert.Equal(t, 2.0, counterValue(t, reg, "lecturebot_updates_total", "kind", "callback"))
	assert.Equal(t, 1.0, counterValue(t, reg, "lecturebot_errors_total", "kind", "unauthorized"))
	assert.Equal(t, 1.0, counterValue(t, reg, "lecturebot_deliveries_total", "status", "failed"))
	assert.Equal(t, 1.0, counterValue(t, reg, "lecturebot_cache_hits_total", "cache", CatalogCacheName))
	assert.Equal(t, 2.0, counterValue(t, reg, "lecturebot_cache_misses_total", "cache", TokenCacheName))
	assert.Equal(t, 0.0, counterValue(t, reg, "lecturebot_cache_misses_total", "cache", CatalogCacheName))
}

func TestRegisterCatalogGauges(t *testing.T) {
	reg := isolatedRegistry(t)
	conf := &structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}

	RegisterCatalogGauges(conf, fixedGauges{subjects: 3, entries: 11})

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		values[f.GetName()] = f.GetMetric()[0].GetGauge().GetValue()
	}
	assert.Equal(t, 3.0, values["lecturebot_subjects_total"])
	assert.Equal(t, 11.0, values["lecturebot_entries_total"])
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
