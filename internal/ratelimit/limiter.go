package ratelimit

import (
	"strings"
	"sync"
	"time"
)

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
	Limit           int           // Calls allowed per window for one key
	Window          time.Duration // Refill window
	Burst           int           // Burst capacity (defaults to Limit if 0)
	CleanupInterval time.Duration
	Exempt          map[string]bool // Keys that are never limited
}

// DefaultConfig allows 30 sourcing calls per domain per hour with a burst of 5.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Limit:           30,
		Window:          time.Hour,
		Burst:           5,
		CleanupInterval: 5 * time.Minute,
		Exempt:          make(map[string]bool),
	}
}

// Limiter manages one token bucket per key.
type Limiter struct {
	buckets       map[string]*TokenBucket
	mu            sync.RWMutex
	config        *Config
	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
	lastAccess    map[string]time.Time
	accessMu      sync.RWMutex
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}

	limiter := &Limiter{
		buckets:    make(map[string]*TokenBucket),
		config:     config,
		lastAccess: make(map[string]time.Time),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		limiter.cleanupTicker = time.NewTicker(config.CleanupInterval)
		limiter.cleanupStop = make(chan struct{})
		go limiter.cleanup()
	}

	return limiter
}

// Allow reports whether one more call for key may proceed, consuming a token if so.
// Keys are compared case-insensitively.
func (l *Limiter) Allow(key string) (bool, Info) {
	key = strings.ToLower(strings.TrimSpace(key))

	if !l.config.Enabled || l.config.Limit <= 0 || l.config.Exempt[key] {
		return true, Info{Allowed: true}
	}

	bucket := l.getBucket(key)

	l.accessMu.Lock()
	l.lastAccess[key] = time.Now()
	l.accessMu.Unlock()

	allowed := bucket.allow()
	remaining, resetTime := bucket.status()

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(time.Until(resetTime), 0)
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      l.config.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

// getBucket gets or creates a token bucket for the given key.
func (l *Limiter) getBucket(key string) *TokenBucket {
	l.mu.RLock()
	bucket, exists := l.buckets[key]
	l.mu.RUnlock()

	if exists {
		return bucket
	}

	window := l.config.Window
	if window <= 0 {
		window = time.Hour
	}
	refillRate := float64(l.config.Limit) / window.Seconds()
	capacity := l.config.Burst
	if capacity <= 0 {
		capacity = l.config.Limit
	}

	bucket = newTokenBucket(capacity, refillRate)

	l.mu.Lock()
	defer l.mu.Unlock()
	// Double-check after acquiring write lock
	if existing, exists := l.buckets[key]; exists {
		return existing
	}
	l.buckets[key] = bucket
	return bucket
}

// cleanup removes old unused buckets to prevent memory leaks.
func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupBuckets(time.Now().Add(-l.idleCutoff()))
		case <-l.cleanupStop:
			return
		}
	}
}

// idleCutoff is how long a bucket may sit unused before it is dropped. A bucket idle
// for a full window has refilled, so dropping it loses nothing.
func (l *Limiter) idleCutoff() time.Duration {
	if l.config.Window > 0 {
		return l.config.Window
	}
	return time.Hour
}

// cleanupBuckets removes buckets last accessed before cutoff.
func (l *Limiter) cleanupBuckets(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accessMu.Lock()
	defer l.accessMu.Unlock()

	for key, lastAccess := range l.lastAccess {
		if lastAccess.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupTicker != nil {
			l.cleanupTicker.Stop()
		}
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
