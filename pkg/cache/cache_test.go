package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "products_all:?skip=0", []byte(`[1]`), time.Minute))
	require.NoError(t, s.Set(ctx, "products_all:?skip=10", []byte(`[2]`), time.Minute))
	require.NoError(t, s.Set(ctx, "product:abc", []byte(`{"id":"abc"}`), time.Minute))

	val, ok, err := s.Get(ctx, "product:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"abc"}`, string(val))

	require.NoError(t, s.DeletePrefix(ctx, "products_all:"))
	_, ok, _ = s.Get(ctx, "products_all:?skip=0")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "products_all:?skip=10")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "product:abc")
	assert.True(t, ok, "prefix delete must leave other keys")

	require.NoError(t, s.Delete(ctx, "product:abc", "never-set"))
	_, ok, _ = s.Get(ctx, "product:abc")
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "banners_public:", []byte("x"), time.Second))
	_, ok, _ := s.Get(ctx, "banners_public:")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = s.Get(ctx, "banners_public:")
	assert.False(t, ok)
}

func TestMemoryStore_ExpiredReadKeepsConcurrentSet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	var beforeCheck func()
	s.now = func() time.Time {
		if hook := beforeCheck; hook != nil {
			beforeCheck = nil
			hook()
		}
		return now
	}

	require.NoError(t, s.Set(ctx, "product:abc", []byte("stale"), time.Second))
	now = now.Add(2 * time.Second)

	// The refresh lands between the read of the expired entry and its removal.
	beforeCheck = func() {
		require.NoError(t, s.Set(ctx, "product:abc", []byte("fresh"), time.Minute))
	}
	val, ok, err := s.Get(ctx, "product:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", string(val))

	val, ok, _ = s.Get(ctx, "product:abc")
	assert.True(t, ok)
	assert.Equal(t, "fresh", string(val))
}

func TestRedisStore(t *testing.T) {
	s, _ := setupTestRedis(t)
	exerciseStore(t, s)
}

func TestRedisStore_TTLAndNamespace(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "store_config_current", []byte("{}"), 30*time.Second))
	assert.True(t, mr.Exists("vitrine:store_config_current"))
	assert.Equal(t, 30*time.Second, mr.TTL("vitrine:store_config_current"))

	mr.FastForward(31 * time.Second)
	_, ok, err := s.Get(ctx, "store_config_current")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
