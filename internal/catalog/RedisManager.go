package catalog

import (
	"context"
	"errors"
	"lecturebot/internal/catalog/interfaces"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "lecturebot:catalog"

// RedisManager keeps the catalog blob under a single Redis string key.
type RedisManager struct {
	client     *redis.Client
	key        string
	compress   bool
	compressor interfaces.CompressorInterface
}

func NewRedisManager(addr, password, key string, compress bool, compressor interfaces.CompressorInterface) (*RedisManager, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis catalog backend requires an address")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisManager{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		key:        key,
		compress:   compress,
		compressor: compressor,
	}, nil
}

func (r *RedisManager) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, interfaces.ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return decodeBlob(r.compressor, data)
}

func (r *RedisManager) Write(ctx context.Context, jsonData []byte) error {
	data, err := encodeBlob(r.compressor, r.compress, jsonData)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, 0).Err()
}

func (r *RedisManager) Close() error {
	return r.client.Close()
}
