package types

import "strings"

// RoleIntent is the closed set of outreach intents a free-text role maps to.
type RoleIntent string

// RoleIntent values
const (
	IntentHiring      RoleIntent = "hiring"
	IntentEngineering RoleIntent = "engineering"
	IntentGeneral     RoleIntent = "general"
)

// Valid reports whether the intent is one of the known categories.
func (i RoleIntent) Valid() bool {
	switch i {
	case IntentHiring, IntentEngineering, IntentGeneral:
		return true
	default:
		return false
	}
}

// ContactKind tells whether a candidate is a departmental inbox or derived from a person.
type ContactKind string

// ContactKind values
const (
	KindRoleBased     ContactKind = "role-based"
	KindPublicContact ContactKind = "public contact"
)

// Category groups candidates for ranking.
type Category string

// Category values
const (
	CategoryHiring      Category = "Hiring"
	CategoryEngineering Category = "Engineering"
	CategoryGeneral     Category = "General"
)

// ConfidenceLevel is a qualitative indicator of how likely an address is correct.
// It is never a deliverability guarantee.
type ConfidenceLevel string

// ConfidenceLevel values
const (
	ConfidenceHigh   ConfidenceLevel = "High"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceLow    ConfidenceLevel = "Low"
)

// CandidateContact is a single suggested address for a company.
type CandidateContact struct {
	Address          string          `json:"address"`
	Kind             ContactKind     `json:"kind"`
	Category         Category        `json:"category"`
	ConfidenceLevel  ConfidenceLevel `json:"confidence_level"`
	ConfidenceReason string          `json:"confidence_reason"`
	SourceName       string          `json:"source_name,omitempty"`
	SourceTitle      string          `json:"source_title,omitempty"`
	EvidenceURL      string          `json:"evidence_url,omitempty"`
}

// LocalPart returns the part of the address before the '@'.
func (c CandidateContact) LocalPart() string {
	local, _, _ := strings.Cut(c.Address, "@")
	return local
}

// DomainPart returns the part of the address after the '@'.
func (c CandidateContact) DomainPart() string {
	_, domain, _ := strings.Cut(c.Address, "@")
	return domain
}

// IsPersonDerived reports whether the candidate was synthesized from a discovered name.
func (c CandidateContact) IsPersonDerived() bool {
	return c.Kind == KindPublicContact
}

// PersonRecord is a named individual found on a company's own pages.
type PersonRecord struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	EvidenceURL string `json:"evidence_url"`
	Source      string `json:"source,omitempty"` // site-search, site-scrape
}
