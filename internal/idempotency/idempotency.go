// Package idempotency remembers Idempotency-Key values so that a retried
// rental or return request is rejected instead of applied twice.
package idempotency

import (
	"context"
	"fmt"

	"rentalstore-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idempotency:"

// Store claims keys. Claim returns true the first time a key is seen within
// the TTL and false for every repeat. Release forgets a claimed key so the
// request it guarded can be sent again.
type Store interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// New builds the store selected by cfg. It returns nil for type "none".
func New(cfg *config.Config) (Store, error) {
	switch cfg.Idempotency.Type {
	case "none":
		return nil, nil
	case "memory":
		return NewMemoryStore(cfg.IdempotencyTTL()), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Idempotency.RedisAddr,
			Password: cfg.Idempotency.RedisPassword,
			DB:       cfg.Idempotency.RedisDB,
		})
		return NewRedisStore(client, cfg.IdempotencyTTL()), nil
	default:
		return nil, fmt.Errorf("unsupported idempotency store: %q", cfg.Idempotency.Type)
	}
}
