package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps claimed keys in process. Expired keys are swept lazily
// on Claim.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryStore) Claim(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.expires {
		if !now.Before(exp) {
			delete(m.expires, k)
		}
	}

	if _, seen := m.expires[key]; seen {
		return false, nil
	}
	m.expires[key] = now.Add(m.ttl)
	return true, nil
}

func (m *MemoryStore) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expires, key)
	return nil
}
