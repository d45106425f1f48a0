package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ThrottleLock serializes the check-then-write gap of the contact throttle for
// a set of identity keys. Acquire reports ok=false when another request holds
// any of the keys.
type ThrottleLock interface {
	Acquire(ctx context.Context, keys []string, ttl time.Duration) (release func(), ok bool, err error)
}

// noopThrottleLock is the default: the limiter stays advisory.
type noopThrottleLock struct{}

func (noopThrottleLock) Acquire(context.Context, []string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}

// releaseScript deletes a lock key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisThrottleLock takes one SET NX PX key per identity.
type RedisThrottleLock struct {
	client *redis.Client
	prefix string
}

func NewRedisThrottleLock(client *redis.Client) *RedisThrottleLock {
	return &RedisThrottleLock{client: client, prefix: "site:contact:lock:"}
}

// ConnectRedis parses url and verifies connectivity.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (l *RedisThrottleLock) Acquire(ctx context.Context, keys []string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	var held []string

	release := func() {
		// Release on a fresh context: the request context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for _, key := range held {
			_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
		}
	}

	for _, key := range keys {
		fullKey := l.prefix + key
		acquired, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
		if err != nil {
			release()
			return func() {}, false, fmt.Errorf("acquire %s: %w", fullKey, err)
		}
		if !acquired {
			release()
			return func() {}, false, nil
		}
		held = append(held, fullKey)
	}
	return release, true, nil
}
