package domains

import (
	"context"
	"sync"
)

// Registry pins the confirmed domain of each company.
type Registry interface {
	// Lookup returns the confirmed domain for a cleaned company name.
	Lookup(ctx context.Context, company string) (string, bool, error)
	// Confirm records the domain for a company. Confirming a different domain
	// for an already-confirmed company returns a *ConflictError.
	Confirm(ctx context.Context, company, domain string) error
}

// MemoryRegistry is a process-local Registry.
type MemoryRegistry struct {
	mu        sync.RWMutex
	confirmed map[string]string
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{confirmed: make(map[string]string)}
}

// Lookup implements Registry.
func (r *MemoryRegistry) Lookup(_ context.Context, company string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	domain, ok := r.confirmed[company]
	return domain, ok, nil
}

// Confirm implements Registry.
func (r *MemoryRegistry) Confirm(_ context.Context, company, domain string) error {
	domain = NormalizeDomain(domain)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.confirmed[company]; ok {
		if existing != domain {
			return &ConflictError{Company: company, Confirmed: existing, Requested: domain}
		}
		return nil
	}
	r.confirmed[company] = domain
	return nil
}
