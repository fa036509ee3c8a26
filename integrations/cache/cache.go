// Package cache holds short-lived claim keys used to drop duplicate callbacks.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"learnhub/logger"

	goredis "github.com/redis/go-redis/v9"
)

type RedisDeduper struct {
	rdb    *goredis.Client
	prefix string
	log    *logger.Logger
}

// NewRedisDeduper connects and pings. The caller owns Close.
func NewRedisDeduper(addr, password string, baseLog *logger.Logger) (*RedisDeduper, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisDeduper{rdb: rdb, prefix: "learnhub:", log: baseLog.With("service", "RedisDeduper")}, nil
}

// Claim sets key only if it is absent. It reports true for the first caller.
func (d *RedisDeduper) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, d.prefix+key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}

func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	if err := d.rdb.Del(ctx, d.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (d *RedisDeduper) Close() error { return d.rdb.Close() }

// MemoryDeduper is the single-process fallback.
type MemoryDeduper struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
}

func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{keys: map[string]time.Time{}, now: time.Now}
}

func (d *MemoryDeduper) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.now()
	if exp, ok := d.keys[key]; ok && t.Before(exp) {
		return false, nil
	}
	d.keys[key] = t.Add(ttl)
	return true, nil
}

func (d *MemoryDeduper) Release(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.keys, key)
	return nil
}

func (d *MemoryDeduper) Close() error { return nil }
