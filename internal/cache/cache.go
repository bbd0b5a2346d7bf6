// Package cache provides a two-tier result cache: an in-process L1 map in
// front of an optional Redis L2 that survives restarts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Options configures a Tiered cache
type Options struct {
	// RedisURL enables the L2 tier when set
	RedisURL        string
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration

	// OnHit and OnMiss are optional metric hooks. tier is "l1" or "l2".
	OnHit  func(tier string)
	OnMiss func()
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		TTL:             2 * time.Hour,
		MaxEntries:      1000,
		CleanupInterval: 5 * time.Minute,
	}
}

// Tiered is an L1 (memory) + L2 (Redis) cache of opaque byte values
type Tiered struct {
	l1      sync.Map // key -> *entry
	rdb     *redis.Client
	breaker *gobreaker.CircuitBreaker
	opts    Options
	logger  *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// New creates a Tiered cache. An empty or unreachable Redis URL disables L2;
// the cache keeps working from memory.
func New(ctx context.Context, opts Options, logger *zap.Logger) *Tiered {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.TTL <= 0 {
		opts.TTL = defaults.TTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaults.CleanupInterval
	}

	c := &Tiered{opts: opts, logger: logger, stop: make(chan struct{})}

	if opts.RedisURL != "" {
		c.connectRedis(ctx, opts.RedisURL)
	}

	logger.Info("cache initialized",
		zap.Duration("ttl", opts.TTL),
		zap.Bool("redis", c.rdb != nil),
		zap.Int("max_entries", opts.MaxEntries))

	go c.cleanupLoop()
	return c
}

func (c *Tiered) connectRedis(ctx context.Context, url string) {
	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		c.logger.Warn("invalid redis URL, L2 disabled", zap.Error(err))
		return
	}

	rdb := redis.NewClient(redisOpts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		c.logger.Warn("redis unreachable, L2 disabled", zap.Error(err))
		_ = rdb.Close()
		return
	}

	c.rdb = rdb
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cache-l2",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	c.logger.Info("L2 redis connected", zap.String("addr", redisOpts.Addr))
}

// Key builds a deterministic cache key from parts.
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%x", namespace, hash[:12])
}

// Get tries L1, then L2. An L2 hit repopulates L1.
func (c *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := c.l1.Load(key); ok {
		e := v.(*entry)
		if time.Now().Before(e.expiresAt) {
			c.recordHit("l1")
			return e.data, true
		}
		c.l1.Delete(key)
	}

	if c.rdb != nil {
		v, err := c.breaker.Execute(func() (any, error) {
			return c.rdb.Get(ctx, key).Bytes()
		})
		if err == nil {
			data := v.([]byte)
			c.storeL1(key, data)
			c.recordHit("l2")
			return data, true
		}
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("L2 get failed", zap.String("key", key), zap.Error(err))
		}
	}

	c.misses.Add(1)
	if c.opts.OnMiss != nil {
		c.opts.OnMiss()
	}
	return nil, false
}

// Set stores data in both tiers.
func (c *Tiered) Set(ctx context.Context, key string, data []byte) {
	c.evictIfNeeded()
	c.storeL1(key, data)

	if c.rdb != nil {
		_, err := c.breaker.Execute(func() (any, error) {
			return nil, c.rdb.Set(ctx, key, data, c.opts.TTL).Err()
		})
		if err != nil {
			c.logger.Debug("L2 set failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Stats returns hit and miss counters.
func (c *Tiered) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the cleanup loop and closes the Redis client.
func (c *Tiered) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// GetJSON loads and decodes a cached value. Decode failures count as misses.
func GetJSON[T any](ctx context.Context, c *Tiered, key string) (T, bool) {
	var out T
	if c == nil {
		return out, false
	}
	data, ok := c.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// SetJSON encodes and stores v.
func SetJSON[T any](ctx context.Context, c *Tiered, key string, v T) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, data)
}

func (c *Tiered) recordHit(tier string) {
	c.hits.Add(1)
	if c.opts.OnHit != nil {
		c.opts.OnHit(tier)
	}
}

func (c *Tiered) storeL1(key string, data []byte) {
	c.l1.Store(key, &entry{data: data, expiresAt: time.Now().Add(c.opts.TTL)})
}

// evictIfNeeded drops expired entries and then the oldest ones until L1 is
// under MaxEntries.
func (c *Tiered) evictIfNeeded() {
	if c.opts.MaxEntries <= 0 {
		return
	}

	count := 0
	c.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count < c.opts.MaxEntries {
		return
	}

	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if now.After(val.(*entry).expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return true
	})

	for count >= c.opts.MaxEntries {
		var oldestKey any
		oldestAt := now.Add(c.opts.TTL + time.Hour)
		c.l1.Range(func(key, val any) bool {
			if e := val.(*entry); e.expiresAt.Before(oldestAt) {
				oldestKey, oldestAt = key, e.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			return
		}
		c.l1.Delete(oldestKey)
		count--
	}
}

func (c *Tiered) cleanupLoop() {
	ticker := time.NewTicker(c.opts.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.l1.Range(func(key, val any) bool {
				if now.After(val.(*entry).expiresAt) {
					c.l1.Delete(key)
				}
				return true
			})
		case <-c.stop:
			return
		}
	}
}
