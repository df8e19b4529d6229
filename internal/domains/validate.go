package domains

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/contact-finder/internal/policy"
)

var domainCharsPattern = regexp.MustCompile(`^[a-z0-9.-]+$`)

// Validator performs syntactic checks on company domains.
type Validator struct {
	blockedRoots map[string]struct{}
}

// NewValidator creates a validator that rejects the given placeholder root labels.
func NewValidator(blockedRoots []string) *Validator {
	roots := make(map[string]struct{}, len(blockedRoots))
	for _, r := range blockedRoots {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			roots[r] = struct{}{}
		}
	}
	return &Validator{blockedRoots: roots}
}

// DefaultValidator returns a validator using the built-in policy roots.
func DefaultValidator() *Validator {
	return NewValidator(policy.Default().GenericDomainRoots)
}

// Check returns a *ValidationError describing the first failed rule, or nil.
func (v *Validator) Check(domain string) error {
	d := NormalizeDomain(domain)
	switch {
	case d == "":
		return &ValidationError{Domain: domain, Reason: "domain is empty"}
	case strings.IndexFunc(d, unicode.IsSpace) >= 0:
		return &ValidationError{Domain: domain, Reason: "domain contains whitespace"}
	case !strings.Contains(d, "."):
		return &ValidationError{Domain: domain, Reason: "domain has no dot"}
	case !domainCharsPattern.MatchString(d):
		return &ValidationError{Domain: domain, Reason: "domain contains characters outside [a-z0-9.-]"}
	}

	root, _, _ := strings.Cut(d, ".")
	if _, blocked := v.blockedRoots[root]; blocked {
		return &ValidationError{Domain: domain, Reason: "domain root is a generic keyword, not a company"}
	}
	return nil
}

// IsValid reports whether the domain passes every syntactic rule.
func (v *Validator) IsValid(domain string) bool {
	return v.Check(domain) == nil
}

// IsValidCompanyDomain checks a domain against the built-in rules.
func IsValidCompanyDomain(domain string) bool {
	return DefaultValidator().IsValid(domain)
}

// NormalizeDomain trims and lower-cases a domain.
// Internal whitespace is preserved so validation can reject it.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
