package domains

import (
	"regexp"
	"strings"

	"github.com/jonathan/contact-finder/internal/policy"
)

var (
	corporateSuffixPattern = regexp.MustCompile(`[\s,]+(inc|ltd|llc|corp|corporation|company|co|plc)\.?\s*$`)
	nonAlphanumericPattern = regexp.MustCompile(`[^a-z0-9]`)
)

// CleanCompanyName lower-cases a company name, strips one trailing corporate suffix
// token and removes everything that is not a letter or digit.
//
//	"Microsoft Corporation" -> "microsoft"
//	"Acme, Inc."            -> "acme"
func CleanCompanyName(name string) string {
	clean := strings.ToLower(strings.TrimSpace(name))
	clean = corporateSuffixPattern.ReplaceAllString(clean, "")
	return nonAlphanumericPattern.ReplaceAllString(clean, "")
}

// Resolver maps company names to a best-guess domain.
// Its answer is a suggestion and must still be validated before use.
type Resolver struct {
	directory map[string]string
}

// NewResolver creates a resolver over a copy of the given directory.
func NewResolver(directory map[string]string) *Resolver {
	dir := make(map[string]string, len(directory))
	for k, v := range directory {
		dir[strings.ToLower(k)] = NormalizeDomain(v)
	}
	return &Resolver{directory: dir}
}

// DefaultResolver returns a resolver over the built-in company directory.
func DefaultResolver() *Resolver {
	return NewResolver(policy.Default().KnownDomains)
}

// WithEntries returns a new resolver with extra directory entries layered on top.
func (r *Resolver) WithEntries(entries map[string]string) *Resolver {
	merged := make(map[string]string, len(r.directory)+len(entries))
	for k, v := range r.directory {
		merged[k] = v
	}
	for k, v := range entries {
		merged[CleanCompanyName(k)] = NormalizeDomain(v)
	}
	return &Resolver{directory: merged}
}

// Resolve returns the directory domain for the cleaned name, or "<cleaned>.com".
// An empty or fully non-alphanumeric name resolves to "".
func (r *Resolver) Resolve(companyName string) string {
	clean := CleanCompanyName(companyName)
	if clean == "" {
		return ""
	}
	if domain, ok := r.directory[clean]; ok {
		return domain
	}
	return clean + ".com"
}

// Known reports whether the company is in the directory.
func (r *Resolver) Known(companyName string) bool {
	_, ok := r.directory[CleanCompanyName(companyName)]
	return ok
}

// ResolveCompanyDomain resolves a company name with the built-in directory.
func ResolveCompanyDomain(companyName string) string {
	return DefaultResolver().Resolve(companyName)
}
