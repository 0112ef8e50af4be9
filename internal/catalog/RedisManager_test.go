package catalog

import (
	"context"
	"lecturebot/internal/catalog/interfaces"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisManager(t *testing.T, key string, compress bool) (*RedisManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(c.Close)

	rm, err := NewRedisManager(mr.Addr(), "", key, compress, c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rm.Close() })
	return rm, mr
}

func TestNewRedisManager_RequiresAddr(t *testing.T) {
	_, err := NewRedisManager("  ", "", "", false, nil)
	assert.Error(t, err)
}

func TestRedisManager_MissingKey(t *testing.T) {
	rm, _ := newTestRedisManager(t, "", false)
	assert.Equal(t, defaultRedisKey, rm.key)

	_, err := rm.Read(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrNoDocument)
}

func TestRedisManager_WriteRead(t *testing.T) {
	rm, mr := newTestRedisManager(t, "test:catalog", false)
	ctx := context.Background()
	data := []byte(`{"version":2,"subjects":{}}`)

	require.NoError(t, rm.Write(ctx, data))

	stored, err := mr.Get("test:catalog")
	require.NoError(t, err)
	assert.Equal(t, string(data), stored)

	got, err := rm.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestRedisManager_Compressed(t *testing.T) {
	rm, mr := newTestRedisManager(t, "test:catalog", true)
	ctx := context.Background()
	data := []byte(`{"version":2,"subjects":{"A":{}}}`)

	require.NoError(t, rm.Write(ctx, data))

	stored, err := mr.Get("test:catalog")
	require.NoError(t, err)
	assert.True(t, isCompressed([]byte(stored)))

	got, err := rm.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestRedisManager_Unreachable(t *testing.T) {
	rm, mr := newTestRedisManager(t, "", false)
	mr.Close()

	_, err := rm.Read(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, interfaces.ErrNoDocument)
}
