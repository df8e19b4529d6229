package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 10; i++ {
		if !bucket.allow() {
			t.Errorf("Expected call %d to be allowed", i+1)
		}
	}

	if bucket.allow() {
		t.Error("Expected 11th call to be denied")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 10; i++ {
		bucket.allow()
	}

	time.Sleep(1100 * time.Millisecond)

	if !bucket.allow() {
		t.Error("Expected call to be allowed after refill")
	}
	if bucket.allow() {
		t.Error("Expected call to be denied after consuming refilled token")
	}
}

func TestTokenBucket_Status(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 5; i++ {
		bucket.allow()
	}

	remaining, resetTime := bucket.status()
	if remaining != 5 {
		t.Errorf("Expected 5 remaining tokens, got %d", remaining)
	}
	if resetTime.Before(time.Now()) {
		t.Error("Reset time should be in the future")
	}
}

func TestLimiter_AllowPerKey(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, Limit: 3, Window: time.Hour})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("acme.com")
		if !allowed {
			t.Fatalf("Expected call %d to be allowed", i+1)
		}
		if info.Limit != 3 {
			t.Errorf("Expected limit 3, got %d", info.Limit)
		}
	}

	allowed, info := limiter.Allow("ACME.com")
	if allowed {
		t.Error("Expected 4th call for the same domain to be denied")
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected a positive retry-after when denied")
	}

	if allowed, _ := limiter.Allow("other.com"); !allowed {
		t.Error("Expected a different domain to have its own bucket")
	}
}

func TestLimiter_Burst(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, Limit: 100, Window: time.Hour, Burst: 2})
	defer limiter.Stop()

	limiter.Allow("acme.com")
	limiter.Allow("acme.com")
	if allowed, _ := limiter.Allow("acme.com"); allowed {
		t.Error("Expected burst capacity to cap immediate calls")
	}
}

func TestLimiter_DisabledAndExempt(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		key    string
	}{
		{"disabled", &Config{Enabled: false, Limit: 1, Window: time.Hour}, "acme.com"},
		{"zero limit", &Config{Enabled: true, Limit: 0, Window: time.Hour}, "acme.com"},
		{"exempt", &Config{Enabled: true, Limit: 1, Window: time.Hour, Exempt: map[string]bool{"acme.com": true}}, "acme.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewLimiter(tt.config)
			defer limiter.Stop()

			for i := 0; i < 5; i++ {
				if allowed, _ := limiter.Allow(tt.key); !allowed {
					t.Fatalf("Expected call %d to be allowed", i+1)
				}
			}
		})
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, Limit: 50, Window: time.Hour})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("acme.com"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 50 {
		t.Errorf("Expected exactly 50 allowed calls, got %d", allowedCount)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, Limit: 1, Window: time.Hour})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("domain%d.com", i))
	}

	limiter.cleanupBuckets(time.Now().Add(time.Minute))

	limiter.mu.RLock()
	remaining := len(limiter.buckets)
	limiter.mu.RUnlock()
	if remaining != 0 {
		t.Errorf("Expected all idle buckets to be removed, got %d", remaining)
	}

	if allowed, _ := limiter.Allow("domain0.com"); !allowed {
		t.Error("Expected a fresh bucket after cleanup")
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(DefaultConfig())
	limiter.Stop()
	limiter.Stop()
}
