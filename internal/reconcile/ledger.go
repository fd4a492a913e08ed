package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const completedKeyPrefix = "fitcoach:completed::"

// RedisLedger keeps the completion ledger in redis, shared by every service
// instance and by one-shot reconcile runs.
type RedisLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisLedger creates a ledger whose entries expire after ttl; zero keeps
// them forever.
func NewRedisLedger(rdb *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{
		rdb: rdb,
		ttl: ttl,
	}
}

func (l *RedisLedger) MarkCompleted(ctx context.Context, challengeID uuid.UUID) (bool, error) {
	return l.rdb.SetNX(ctx, completedKeyPrefix+challengeID.String(), 1, l.ttl).Result()
}

type MemoryLedger struct {
	mu        sync.Mutex
	completed map[uuid.UUID]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		completed: make(map[uuid.UUID]struct{}),
	}
}

func (l *MemoryLedger) MarkCompleted(_ context.Context, challengeID uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.completed[challengeID]; ok {
		return false, nil
	}
	l.completed[challengeID] = struct{}{}
	return true, nil
}
