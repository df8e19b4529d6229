// Package ratelimit throttles outbound name-sourcing calls per company domain using
// token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket represents a token bucket rate limiter.
// It allows a certain number of calls (tokens) per time window,
// with tokens refilling at a steady rate.
type TokenBucket struct {
	capacity   int        // Maximum tokens (burst capacity)
	refillRate float64    // Tokens per second
	tokens     float64    // Current tokens available
	lastRefill time.Time  // Last time tokens were refilled
	mu         sync.Mutex // Mutex for thread safety
}

// newTokenBucket creates a new token bucket with the specified capacity and refill rate.
func newTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// refill adds tokens for the time elapsed since the last refill. Caller holds mu.
func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now
}

// allow checks if a token is available and consumes it if so.
func (tb *TokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(time.Now())
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// status returns the remaining whole tokens and when the bucket will be full again,
// without consuming a token.
func (tb *TokenBucket) status() (remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.refill(now)

	remaining = int(tb.tokens)
	if tb.tokens < float64(tb.capacity) {
		secondsUntilFull := (float64(tb.capacity) - tb.tokens) / tb.refillRate
		resetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	} else {
		resetTime = now
	}
	return remaining, resetTime
}
