// Package policy holds the data tables that gate contact discovery: sensitive-topic
// keywords, placeholder domain roots, the known company directory and the set of
// companies where person-based guessing is disabled.
//
// Tables are plain data loaded once at startup. Default returns fresh copies on every
// call so nothing in the process can mutate a shared table.
package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Policy is the full set of policy tables used by a discovery service.
type Policy struct {
	// SensitiveKeywords blocks any local-part containing one of these (letters only).
	SensitiveKeywords []string `json:"sensitive_keywords,omitempty"`
	// GenericDomainRoots rejects domains whose root label is exactly one of these.
	GenericDomainRoots []string `json:"generic_domain_roots,omitempty"`
	// KnownDomains maps a cleaned company token to its mail domain.
	KnownDomains map[string]string `json:"known_domains,omitempty"`
	// LargeCompanies lists cleaned company tokens where person-based generation is disabled.
	LargeCompanies []string `json:"large_companies,omitempty"`
	// LargeCompanyDomains lists domains where person-based generation is disabled.
	LargeCompanyDomains []string `json:"large_company_domains,omitempty"`
}

// Default returns the built-in policy.
func Default() *Policy {
	return &Policy{
		SensitiveKeywords:   defaultSensitiveKeywords(),
		GenericDomainRoots:  defaultGenericDomainRoots(),
		KnownDomains:        defaultKnownDomains(),
		LargeCompanies:      defaultLargeCompanies(),
		LargeCompanyDomains: defaultLargeCompanyDomains(),
	}
}

// Load reads a JSON policy file and overlays it on the defaults.
// List fields present in the file replace the default list; known_domains entries are merged.
func Load(path string) (*Policy, error) {
	if path == "" {
		return nil, fmt.Errorf("policy path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	var overlay Policy
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse policy JSON: %w", err)
	}

	p := Default().Merge(&overlay)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Merge returns a new policy with the overlay's non-empty fields applied.
func (p *Policy) Merge(overlay *Policy) *Policy {
	out := p.clone()
	if overlay == nil {
		return out
	}
	if len(overlay.SensitiveKeywords) > 0 {
		out.SensitiveKeywords = normalizeList(overlay.SensitiveKeywords)
	}
	if len(overlay.GenericDomainRoots) > 0 {
		out.GenericDomainRoots = normalizeList(overlay.GenericDomainRoots)
	}
	if len(overlay.LargeCompanies) > 0 {
		out.LargeCompanies = normalizeList(overlay.LargeCompanies)
	}
	if len(overlay.LargeCompanyDomains) > 0 {
		out.LargeCompanyDomains = normalizeList(overlay.LargeCompanyDomains)
	}
	for k, v := range overlay.KnownDomains {
		out.KnownDomains[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}

// Validate checks that every table entry is usable.
func (p *Policy) Validate() error {
	if len(p.SensitiveKeywords) == 0 {
		return fmt.Errorf("policy error: 'sensitive_keywords' must not be empty")
	}
	for _, kw := range p.SensitiveKeywords {
		if kw == "" || kw != lettersOnly(kw) {
			return fmt.Errorf("policy error: sensitive keyword %q must be lowercase letters only", kw)
		}
	}
	for _, root := range p.GenericDomainRoots {
		if root == "" || strings.Contains(root, ".") {
			return fmt.Errorf("policy error: generic domain root %q must be a single label", root)
		}
	}
	for name, domain := range p.KnownDomains {
		if name == "" || !strings.Contains(domain, ".") {
			return fmt.Errorf("policy error: known domain %q -> %q is invalid", name, domain)
		}
	}
	return nil
}

// IsLargeCompany reports whether person-based generation is disabled for the company.
// cleanedName must already have corporate suffixes and punctuation removed.
func (p *Policy) IsLargeCompany(cleanedName, domain string) bool {
	cleanedName = strings.ToLower(cleanedName)
	domain = strings.ToLower(strings.TrimSpace(domain))
	for _, name := range p.LargeCompanies {
		if name != "" && name == cleanedName {
			return true
		}
	}
	for _, d := range p.LargeCompanyDomains {
		if d != "" && (d == domain || strings.HasSuffix(domain, "."+d)) {
			return true
		}
	}
	return false
}

// ContainsSensitiveKeyword reports whether the letters-only form of s contains a blocked keyword.
// It returns the first matching keyword.
func (p *Policy) ContainsSensitiveKeyword(s string) (string, bool) {
	normalized := lettersOnly(strings.ToLower(s))
	if normalized == "" {
		return "", false
	}
	for _, kw := range p.SensitiveKeywords {
		if strings.Contains(normalized, kw) {
			return kw, true
		}
	}
	return "", false
}

// KnownDomainNames returns the directory keys in sorted order.
func (p *Policy) KnownDomainNames() []string {
	names := make([]string, 0, len(p.KnownDomains))
	for name := range p.KnownDomains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Policy) clone() *Policy {
	out := &Policy{
		SensitiveKeywords:   append([]string(nil), p.SensitiveKeywords...),
		GenericDomainRoots:  append([]string(nil), p.GenericDomainRoots...),
		LargeCompanies:      append([]string(nil), p.LargeCompanies...),
		LargeCompanyDomains: append([]string(nil), p.LargeCompanyDomains...),
		KnownDomains:        make(map[string]string, len(p.KnownDomains)),
	}
	for k, v := range p.KnownDomains {
		out.KnownDomains[k] = v
	}
	return out
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lettersOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
