// Package ratelimit limits API requests per client and endpoint with token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// status reports whole tokens left and when the bucket is full again.
func (b *bucket) status(now time.Time) (remaining int, resetTime time.Time, retryAfter time.Duration) {
	tokens := b.limiter.TokensAt(now)
	if tokens < 0 {
		tokens = 0
	}
	remaining = int(tokens)

	perSecond := float64(b.limiter.Limit())
	if perSecond <= 0 {
		return remaining, now, 0
	}

	resetTime = now
	if missing := float64(b.limiter.Burst()) - tokens; missing > 0 {
		resetTime = now.Add(time.Duration(missing / perSecond * float64(time.Second)))
	}
	if tokens < 1 {
		retryAfter = time.Duration((1 - tokens) / perSecond * float64(time.Second))
	}
	return remaining, resetTime, retryAfter
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter manages rate limiting for multiple clients.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	config   *Config
	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			Whitelist:       make(map[string]bool),
			Blacklist:       make(map[string]bool),
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		stop:    make(chan struct{}),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanup(config.CleanupInterval)
	}
	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}

	// unlimited endpoint, e.g. health check
	if endpointConfig.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := time.Now()
	b := l.getBucket(clientID+":"+endpoint+":"+method, *endpointConfig, now)

	allowed := b.limiter.AllowN(now, 1)
	remaining, resetTime, retryAfter := b.status(now)
	if allowed {
		retryAfter = 0
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      endpointConfig.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

// getBucket gets or creates the bucket for key and marks it used.
func (l *Limiter) getBucket(key string, cfg EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.Limit
		}
		window := cfg.Window
		if window <= 0 {
			window = time.Minute
		}
		every := rate.Limit(float64(cfg.Limit) / window.Seconds())
		b = &bucket{limiter: rate.NewLimiter(every, burst)}
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets(time.Now().Add(-1 * time.Hour))
		case <-l.stop:
			return
		}
	}
}

// cleanupBuckets removes buckets not used since cutoff.
func (l *Limiter) cleanupBuckets(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) bucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
