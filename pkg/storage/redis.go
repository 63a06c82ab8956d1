package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// DefaultRedisPrefix namespaces document keys in a shared Redis
	DefaultRedisPrefix = "nurseduty:"

	defaultRedisTimeout = 5 * time.Second
)

// RedisBackend stores each document as a Redis string under prefix+key
type RedisBackend struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisBackend wraps an existing client. The caller owns the client's
// options; Close closes it.
func NewRedisBackend(client *redis.Client, prefix string, timeout time.Duration) *RedisBackend {
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	return &RedisBackend{client: client, prefix: prefix, timeout: timeout}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}

// EnsureRoot checks the server is reachable. Redis has nothing to create.
func (b *RedisBackend) EnsureRoot() error {
	ctx, cancel := b.ctx()
	defer cancel()
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (b *RedisBackend) Read(key string) ([]byte, error) {
	ctx, cancel := b.ctx()
	defer cancel()

	data, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", key, ErrNoDocument)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write uses a single SET, which Redis applies atomically
func (b *RedisBackend) Write(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	ctx, cancel := b.ctx()
	defer cancel()
	return b.client.Set(ctx, b.prefix+key, data, 0).Err()
}

func (b *RedisBackend) Keys() ([]string, error) {
	ctx, cancel := b.ctx()
	defer cancel()

	var keys []string
	var cursor uint64
	for {
		batch, next, err := b.client.Scan(ctx, cursor, b.prefix+"*", 200).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, b.prefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
