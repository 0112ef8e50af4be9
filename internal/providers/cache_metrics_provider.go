package providers

import "lecturebot/internal/structures"

// Cache names used as the "cache" metric label.
const (
	CatalogCacheName = "catalog"
	TokenCacheName   = "tokens"
)

// MetricsCacheProvider counts hits and misses of the cache it wraps under
// its name.
type MetricsCacheProvider struct {
	name    string
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits(c.name)
	} else {
		c.metrics.IncCacheMisses(c.name)
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(key string, value []byte) error {
	return c.inner.Set(key, value)
}

// NewInstrumentedCacheProvider builds the HTTP catalog view cache. When the
// cache is disabled it is returned unwrapped so it does not count phantom misses.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if !conf.Cache.Enabled {
		return inner
	}
	return &MetricsCacheProvider{
		name:    CatalogCacheName,
		inner:   inner,
		metrics: metrics,
	}
}
