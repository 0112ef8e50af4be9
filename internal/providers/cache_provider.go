package providers

import (
	"fmt"
	"lecturebot/internal/structures"
	"unsafe"

	"github.com/coocood/freecache"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := max(int(conf.Cache.TTL.Seconds()), 1)

	logger.Infof(TypeApp, "Cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// freecache copies keys internally, so the result is never modified.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set fails when the entry is larger than a freecache segment allows
// (about 1/1024 of the cache size).
func (c *CacheProvider) Set(key string, value []byte) error {
	if err := c.cache.Set(unsafeStringToBytes(key), value, c.ttl); err != nil {
		return fmt.Errorf("cache set %q (%d bytes): %w", key, len(key)+len(value), err)
	}
	return nil
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool)  { return nil, false }
func (n *noopCache) Set(_ string, _ []byte) error { return nil }

// TokenCacheInterface is the cache backing long button payloads.
type TokenCacheInterface interface {
	CacheProviderInterface
}

const defaultTokenCacheSizeMB = 4

func newTokenCache(conf *structures.Config, logger Logger) *CacheProvider {
	size := conf.Cache.Size
	if size <= 0 {
		size = defaultTokenCacheSizeMB
	}
	ttl := max(int(conf.Cache.TTL.Seconds()), 0)
	logger.Infof(TypeApp, "Button token cache initialized: %dMB, TTL=%ds", size, ttl)
	return &CacheProvider{
		cache: freecache.NewCache(size * 1024 * 1024),
		ttl:   ttl,
	}
}

// NewTokenCacheProvider always returns a working cache, even when the view
// cache is disabled: a button whose payload lives only in a noop cache would
// be dead on arrival. Misses here are expired buttons.
func NewTokenCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) TokenCacheInterface {
	return &MetricsCacheProvider{
		name:    TokenCacheName,
		inner:   newTokenCache(conf, logger),
		metrics: metrics,
	}
}
