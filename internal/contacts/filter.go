package contacts

import (
	"fmt"
	"strings"

	"github.com/jonathan/contact-finder/internal/policy"
	"github.com/jonathan/contact-finder/internal/roles"
	"github.com/jonathan/contact-finder/internal/types"
)

// Rejection records why a candidate was dropped.
type Rejection struct {
	Address string
	Reason  string
}

// Filter applies the safety rules every surviving candidate must pass.
type Filter struct {
	policy       *policy.Policy
	allowedInbox map[string]struct{}
}

// NewFilter creates a filter from a policy and the inbox table whose local-parts are allowed.
func NewFilter(p *policy.Policy, table *roles.InboxTable) *Filter {
	if p == nil {
		p = policy.Default()
	}
	if table == nil {
		table = roles.DefaultInboxTable()
	}
	return &Filter{policy: p, allowedInbox: table.AllowedLocalParts()}
}

// Apply returns the candidates that pass every rule, in input order, plus the rejections.
func (f *Filter) Apply(candidates []types.CandidateContact) ([]types.CandidateContact, []Rejection) {
	kept := make([]types.CandidateContact, 0, len(candidates))
	var rejected []Rejection
	for _, c := range candidates {
		if reason := f.check(c); reason != "" {
			rejected = append(rejected, Rejection{Address: c.Address, Reason: reason})
			continue
		}
		kept = append(kept, c)
	}
	return kept, rejected
}

func (f *Filter) check(c types.CandidateContact) string {
	local, domain, ok := strings.Cut(strings.ToLower(c.Address), "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "malformed address"
	}

	if kw, blocked := f.policy.ContainsSensitiveKeyword(local); blocked {
		return fmt.Sprintf("sensitive-topic keyword %q", kw)
	}

	switch c.Kind {
	case types.KindRoleBased:
		if _, allowed := f.allowedInbox[local]; !allowed {
			return "role inbox not in allowed set"
		}
	case types.KindPublicContact:
		if !NameConsistent(local, NameTokens(c.SourceName)) {
			return "local-part not traceable to source name"
		}
	default:
		return fmt.Sprintf("unknown kind %q", c.Kind)
	}
	return ""
}

// FilterCandidates applies the built-in policy and inbox table.
func FilterCandidates(candidates []types.CandidateContact) []types.CandidateContact {
	kept, _ := NewFilter(nil, nil).Apply(candidates)
	return kept
}

// NameConsistent reports whether every token of the local-part (split on '.', '_', '-')
// is a substring of a name token, the first-name initial, or name tokens concatenated
// in order (optionally after the initial).
func NameConsistent(localPart string, nameTokens []string) bool {
	if len(nameTokens) == 0 || nameTokens[0] == "" {
		return false
	}
	initial := nameTokens[0][:1]

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	if len(parts) == 0 {
		return false
	}

	for _, part := range parts {
		if part == initial || substringOfAny(part, nameTokens) || composedOf(part, nameTokens, initial) {
			continue
		}
		return false
	}
	return true
}

func substringOfAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

// composedOf reports whether s is built the way synthesized local-parts are: name
// tokens in name order, each at most once, optionally led by the first-name initial
// standing in for the first token.
func composedOf(s string, tokens []string, initial string) bool {
	if composeFrom(s, tokens, 0) {
		return true
	}
	rest, ok := strings.CutPrefix(s, initial)
	return ok && rest != "" && composeFrom(rest, tokens, 1)
}

func composeFrom(s string, tokens []string, start int) bool {
	if s == "" {
		return true
	}
	for i := start; i < len(tokens); i++ {
		if t := tokens[i]; t != "" && strings.HasPrefix(s, t) && composeFrom(s[len(t):], tokens, i+1) {
			return true
		}
	}
	return false
}
