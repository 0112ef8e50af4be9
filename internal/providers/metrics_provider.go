package providers

import (
	"lecturebot/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(cache string)
	IncCacheMisses(cache string)
	ObservePersistenceDuration(duration time.Duration)
	IncUpdates(kind string)
	IncErrors(kind string)
	IncDeliveries(status string)
}

// CatalogGauges feeds the subject/entry gauges without importing the catalog package.
type CatalogGauges interface {
	SubjectCount() int
	EntryCount() int
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	updatesTotal        *prometheus.CounterVec
	errorsTotal         *prometheus.CounterVec
	deliveriesTotal     *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

func (m *MetricsProvider) IncCacheMisses(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncUpdates(kind string) {
	m.updatesTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncErrors(kind string) {
	m.errorsTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncDeliveries(status string) {
	m.deliveriesTotal.WithLabelValues(status).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lecturebot_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lecturebot_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lecturebot_cache_hits_total",
			Help: "Cache hits by cache name",
		}, []string{"cache"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lecturebot_cache_misses_total",
			Help: "Cache misses by cache name",
		}, []string{"cache"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lecturebot_persistence_duration_seconds",
			Help:    "Duration of catalog load-mutate-save cycles in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		updatesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lecturebot_updates_total",
			Help: "Inbound bot updates by kind",
		}, []string{"kind"}),

		errorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lecturebot_errors_total",
			Help: "Handler errors by taxonomy kind",
		}, []string{"kind"}),

		deliveriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lecturebot_deliveries_total",
			Help: "Lecture deliveries by outcome",
		}, []string{"status"}),
	}
}

// RegisterCatalogGauges exposes catalog size as gauge funcs. No-op when metrics are disabled.
func RegisterCatalogGauges(conf *structures.Config, gauges CatalogGauges) {
	if !conf.Metrics.Enabled {
		return
	}
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "lecturebot_subjects_total",
		Help: "Number of subjects in the catalog",
	}, func() float64 {
		return float64(gauges.SubjectCount())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "lecturebot_entries_total",
		Help: "Number of catalog entries across all subjects",
	}, func() float64 {
		return float64(gauges.EntryCount())
	})
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncUpdates(_ string)                              {}
func (n *noopMetrics) IncErrors(_ string)                               {}
func (n *noopMetrics) IncDeliveries(_ string)                           {}
