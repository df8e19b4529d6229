package domains

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry_ConfirmAndLookup(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	_, ok, err := reg.Lookup(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, reg.Confirm(ctx, "acme", "ACME.com"))
	domain, ok, err := reg.Lookup(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "acme.com", domain)

	// Re-confirming the same domain is a no-op.
	require.NoError(t, reg.Confirm(ctx, "acme", "acme.com"))
}

func TestMemoryRegistry_ConflictIsHardError(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Confirm(ctx, "acme", "acme.com"))

	err := reg.Confirm(ctx, "acme", "acme.io")
	require.Error(t, err)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "acme.com", conflict.Confirmed)
	assert.Equal(t, "acme.io", conflict.Requested)

	domain, _, _ := reg.Lookup(ctx, "acme")
	assert.Equal(t, "acme.com", domain)
}

func TestMemoryRegistry_ConcurrentConfirm(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, d := range []string{"acme.com", "acme.io"} {
		wg.Add(1)
		go func(domain string) {
			defer wg.Done()
			errs <- reg.Confirm(ctx, "acme", domain)
		}(d)
	}
	wg.Wait()
	close(errs)

	var failures int
	for err := range errs {
		if err != nil {
			failures++
		}
	}
	assert.Equal(t, 1, failures)
}
