package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/contact-finder/internal/domains"
)

// Company represents a canonical company record
type Company struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	NameNormalized string     `json:"name_normalized"`
	Domain         *string    `json:"domain,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasConfirmedDomain reports whether the company's domain has been pinned.
func (c *Company) HasConfirmedDomain() bool {
	return c != nil && c.Domain != nil && *c.Domain != ""
}

// NormalizeName converts a company name to the key used for matching.
// It shares its rules with the domain resolver so both agree on identity.
// Example: "Affirm, Inc." -> "affirm"
func NormalizeName(name string) string {
	return domains.CleanCompanyName(name)
}
