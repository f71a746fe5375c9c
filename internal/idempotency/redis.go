package idempotency

import (
	"context"
	"time"

	"rentalstore-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Claim(ctx context.Context, key string) (bool, error) {
	logger.ExternalServiceCall("redis", "SetNX", "key", key)
	ok, err := r.client.SetNX(ctx, keyPrefix+key, 1, r.ttl).Result()
	logger.ExternalServiceResult("redis", "SetNX", err, "claimed", ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RedisStore) Release(ctx context.Context, key string) error {
	logger.ExternalServiceCall("redis", "Del", "key", key)
	err := r.client.Del(ctx, keyPrefix+key).Err()
	logger.ExternalServiceResult("redis", "Del", err)
	return err
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
