// Package cache provides a two-tier cache: L1 in process memory and an optional L2 in Redis.
// L1 is lost on restart, L2 survives it and is shared between replicas.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/logger"
)

// Config controls cache sizing and the optional Redis tier.
type Config struct {
	RedisURL        string
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
}

// Tiered implements L1 (memory) + L2 (Redis) caching of raw bytes.
type Tiered struct {
	l1         sync.Map      // key → *entry
	rdb        *redis.Client // nil when Redis is disabled or unreachable
	ttl        time.Duration
	maxEntries int
	log        *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// New builds the cache and starts the L1 cleanup loop. An empty or unreachable
// RedisURL disables L2; the cache still works from memory.
func New(ctx context.Context, cfg Config, log *zap.Logger) *Tiered {
	log = logger.Component(log, "cache")
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}

	c := &Tiered{
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		log:        log,
		stop:       make(chan struct{}),
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn("invalid redis URL, L2 disabled", zap.Error(err))
		} else {
			rdb := redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				log.Warn("redis unreachable, L2 disabled", zap.Error(err))
				_ = rdb.Close()
			} else {
				c.rdb = rdb
				log.Info("L2 redis connected", zap.String("addr", opts.Addr))
			}
		}
	}

	log.Info("initialized",
		zap.Duration("ttl", cfg.TTL),
		zap.Bool("redis", c.rdb != nil),
		zap.Int("max_entries", cfg.MaxEntries),
	)

	go c.cleanupLoop(cfg.CleanupInterval)
	return c
}

// Key builds a deterministic cache key from a namespace and parts.
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("rm:%s:%x", namespace, hash[:12])
}

// Get tries L1, then L2. An L2 hit populates L1.
func (c *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, ok := c.l1.Load(key); ok {
		e := val.(*entry)
		if time.Now().Before(e.expiresAt) {
			c.hits.Add(1)
			c.log.Debug("L1 hit", zap.String("key", key))
			return e.data, true
		}
		c.l1.Delete(key)
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			c.hits.Add(1)
			c.log.Debug("L2 hit", zap.String("key", key))
			c.l1.Store(key, &entry{data: data, expiresAt: time.Now().Add(c.ttl)})
			return data, true
		}
		if err != redis.Nil {
			c.log.Debug("L2 get failed", zap.Error(err))
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set stores value in both tiers.
func (c *Tiered) Set(ctx context.Context, key string, value []byte) {
	c.evictIfNeeded()
	c.l1.Store(key, &entry{data: value, expiresAt: time.Now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
			c.log.Debug("L2 set failed", zap.Error(err))
		}
	}
}

// Stats returns hit and miss counters.
func (c *Tiered) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the cleanup loop and the Redis client.
func (c *Tiered) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// evictIfNeeded removes expired entries first, then the oldest ones, until L1 has room.
func (c *Tiered) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := 0
	c.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count < c.maxEntries {
		return
	}

	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	for count >= c.maxEntries {
		var oldestKey any
		oldestAt := now.Add(c.ttl + time.Hour)
		c.l1.Range(func(key, val any) bool {
			// earlier expiry means older entry
			if e, ok := val.(*entry); ok && e.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = e.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			break
		}
		c.l1.Delete(oldestKey)
		count--
	}
}

func (c *Tiered) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.l1.Range(func(key, val any) bool {
				if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
					c.l1.Delete(key)
				}
				return true
			})
		}
	}
}
