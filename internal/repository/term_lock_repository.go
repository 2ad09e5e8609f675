package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const termLockPrefix = "faculty-loading:lock:term:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// TermLockRepository hands out exclusive per-term locks. Redis backs the lock when a
// client is configured so several API replicas share it; otherwise the lock is local
// to the process.
type TermLockRepository struct {
	client *redis.Client

	mu    sync.Mutex
	local map[string]localLock
}

type localLock struct {
	token   string
	expires time.Time
}

// NewTermLockRepository constructs the lock store.
func NewTermLockRepository(client *redis.Client) *TermLockRepository {
	return &TermLockRepository{client: client, local: make(map[string]localLock)}
}

// Acquire takes the lock of termID for ttl. It returns false when another holder has it.
// The returned release func is safe to call more than once.
func (r *TermLockRepository) Acquire(ctx context.Context, termID string, ttl time.Duration) (func(context.Context) error, bool, error) {
	token := uuid.NewString()
	key := termLockPrefix + termID

	if r.client == nil {
		return r.acquireLocal(key, token, ttl)
	}

	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("redis unlock %s: %w", key, err)
		}
		return nil
	}
	return release, true, nil
}

func (r *TermLockRepository) acquireLocal(key, token string, ttl time.Duration) (func(context.Context) error, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if held, ok := r.local[key]; ok && now.Before(held.expires) {
		return nil, false, nil
	}
	r.local[key] = localLock{token: token, expires: now.Add(ttl)}

	release := func(context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		if held, ok := r.local[key]; ok && held.token == token {
			delete(r.local, key)
		}
		return nil
	}
	return release, true, nil
}
