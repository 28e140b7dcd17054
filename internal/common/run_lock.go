package common

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned by TryLock when another holder owns the lock.
var ErrLockHeld = errors.New("lock is held by another run")

// RunLock guards a named critical section across runs.
type RunLock interface {
	// TryLock acquires name without waiting. The returned release func must
	// be called once the work is done.
	TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), err error)
}

// LocalRunLock is a process-local RunLock.
type LocalRunLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocalRunLock() *LocalRunLock {
	return &LocalRunLock{held: make(map[string]bool)}
}

func (l *LocalRunLock) TryLock(_ context.Context, name string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[name] {
		return nil, ErrLockHeld
	}
	l.held[name] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
	}, nil
}

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisRunLock is a RunLock shared by every process using the same redis.
// The ttl bounds how long a crashed holder can block others.
type RedisRunLock struct {
	client *redis.Client
	prefix string
}

func NewRedisRunLock(client *redis.Client, prefix string) *RedisRunLock {
	return &RedisRunLock{client: client, prefix: prefix}
}

func (r *RedisRunLock) TryLock(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	key := r.prefix + name
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be cancelled.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, r.client, []string{key}, token).Err()
		})
	}, nil
}
