// Package domains resolves, validates and pins the mail domain of a target company.
package domains

import (
	"errors"
	"fmt"
)

// ErrNoMXRecords is returned when a syntactically valid domain does not accept mail.
var ErrNoMXRecords = errors.New("domain invalid or not configured for email")

// ValidationError describes why a domain string was rejected.
type ValidationError struct {
	Domain string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid company domain %q: %s", e.Domain, e.Reason)
}

// ConflictError is returned when a company already has a different confirmed domain.
type ConflictError struct {
	Company   string
	Confirmed string
	Requested string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("domain conflict for %q: confirmed %s, requested %s", e.Company, e.Confirmed, e.Requested)
}
