package idempotency

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rentalstore-backend/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ClaimOnce(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	ok, err := store.Claim(ctx, "user-1:POST /api/rentals:abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Claim(ctx, "user-1:POST /api/rentals:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Claim(ctx, "user-2:POST /api/rentals:abc")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_Release(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	ok, err := store.Claim(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(ctx, "k"))
	ok, err = store.Claim(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, store.Release(ctx, "never-claimed"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.Release(cancelled, "k"), context.Canceled)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	clock := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	ctx := context.Background()

	ok, _ := store.Claim(ctx, "k")
	require.True(t, ok)

	clock = clock.Add(30 * time.Second)
	ok, _ = store.Claim(ctx, "k")
	assert.False(t, ok)

	clock = clock.Add(31 * time.Second)
	ok, _ = store.Claim(ctx, "k")
	assert.True(t, ok)
	assert.Len(t, store.expires, 1)
}

func TestMemoryStore_ConcurrentClaims(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	var claimed atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := store.Claim(context.Background(), "same-key"); err == nil && ok {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), claimed.Load())
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Claim(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	tests := []struct {
		storeType string
		check     func(t *testing.T, s Store, err error)
	}{
		{"none", func(t *testing.T, s Store, err error) {
			require.NoError(t, err)
			assert.Nil(t, s)
		}},
		{"memory", func(t *testing.T, s Store, err error) {
			require.NoError(t, err)
			assert.IsType(t, &MemoryStore{}, s)
		}},
		{"redis", func(t *testing.T, s Store, err error) {
			require.NoError(t, err)
			require.IsType(t, &RedisStore{}, s)
			s.(*RedisStore).Close()
		}},
		{"etcd", func(t *testing.T, s Store, err error) {
			assert.Error(t, err)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.storeType, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Idempotency.Type = tt.storeType
			cfg.Idempotency.RedisAddr = "localhost:6379"
			cfg.Idempotency.TTLMinutes = 10
			s, err := New(cfg)
			tt.check(t, s, err)
		})
	}
}

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisStore_Claim(t *testing.T) {
	client := getRedisClient(t)
	store := NewRedisStore(client, time.Minute)
	defer store.Close()

	ctx := context.Background()
	key := fmt.Sprintf("test:%s", uuid.NewString())
	defer client.Del(ctx, keyPrefix+key)

	ok, err := store.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Claim(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, keyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Release(ctx, key))
	ok, err = store.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}
