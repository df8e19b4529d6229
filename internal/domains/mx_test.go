package domains

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeMXResolver struct {
	records map[string][]*net.MX
	err     error
	delay   time.Duration
	calls   []string
}

func (f *fakeMXResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	f.calls = append(f.calls, name)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records[name], nil
}

func TestMXChecker_HasMXRecords(t *testing.T) {
	resolver := &fakeMXResolver{
		records: map[string][]*net.MX{
			"acme.com": {{Host: "mx1.acme.com.", Pref: 10}},
		},
	}
	checker := NewMXChecker(resolver, nil, time.Second)
	ctx := context.Background()

	assert.True(t, checker.HasMXRecords(ctx, "acme.com"))
	assert.True(t, checker.HasMXRecords(ctx, " ACME.COM "))
	assert.False(t, checker.HasMXRecords(ctx, "nomail.com"))
}

func TestMXChecker_InvalidDomainSkipsLookup(t *testing.T) {
	resolver := &fakeMXResolver{}
	checker := NewMXChecker(resolver, nil, time.Second)

	assert.False(t, checker.HasMXRecords(context.Background(), "hr"))
	assert.False(t, checker.HasMXRecords(context.Background(), "marketing.io"))
	assert.Empty(t, resolver.calls)
}

func TestMXChecker_FailsClosed(t *testing.T) {
	t.Run("resolver error", func(t *testing.T) {
		resolver := &fakeMXResolver{err: errors.New("SERVFAIL")}
		checker := NewMXChecker(resolver, nil, time.Second)
		assert.False(t, checker.HasMXRecords(context.Background(), "acme.com"))
	})

	t.Run("timeout", func(t *testing.T) {
		resolver := &fakeMXResolver{
			records: map[string][]*net.MX{"acme.com": {{Host: "mx.acme.com."}}},
			delay:   time.Second,
		}
		checker := NewMXChecker(resolver, nil, 20*time.Millisecond)
		assert.False(t, checker.HasMXRecords(context.Background(), "acme.com"))
	})
}
