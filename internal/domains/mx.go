package domains

import (
	"context"
	"net"
	"time"
)

// DefaultMXTimeout bounds a single MX lookup.
const DefaultMXTimeout = 5 * time.Second

// MXResolver looks up mail exchangers. *net.Resolver satisfies it.
type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// MXChecker decides whether a domain is configured to receive mail.
type MXChecker struct {
	resolver  MXResolver
	validator *Validator
	timeout   time.Duration
}

// NewMXChecker creates a checker. A nil resolver uses net.DefaultResolver,
// a nil validator uses DefaultValidator and a zero timeout uses DefaultMXTimeout.
func NewMXChecker(resolver MXResolver, validator *Validator, timeout time.Duration) *MXChecker {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if validator == nil {
		validator = DefaultValidator()
	}
	if timeout <= 0 {
		timeout = DefaultMXTimeout
	}
	return &MXChecker{resolver: resolver, validator: validator, timeout: timeout}
}

// HasMXRecords returns true only if the resolver returns at least one MX record.
// Invalid domains, DNS errors and timeouts all return false.
func (c *MXChecker) HasMXRecords(ctx context.Context, domain string) bool {
	d := NormalizeDomain(domain)
	if !c.validator.IsValid(d) {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	records, err := c.resolver.LookupMX(ctx, d)
	if err != nil {
		return false
	}
	return len(records) > 0
}

// HasMXRecords checks a domain with the system resolver and default timeout.
func HasMXRecords(ctx context.Context, domain string) bool {
	return NewMXChecker(nil, nil, 0).HasMXRecords(ctx, domain)
}
