// Package contacts turns role inboxes and discovered people into a filtered, ranked
// list of candidate addresses for a single company domain.
package contacts

import (
	"fmt"
	"strings"

	"github.com/jonathan/contact-finder/internal/types"
)

// Personal address forms, in emission order.
const (
	PatternFirstDotLast = "first.last"
	PatternFirstLast    = "firstlast"
	PatternInitialLast  = "f+last"
)

// NameTokens splits a name on whitespace and keeps the lower-cased ASCII letters of
// each token. Tokens left empty are dropped.
func NameTokens(name string) []string {
	var tokens []string
	for _, field := range strings.Fields(name) {
		var sb strings.Builder
		for _, r := range strings.ToLower(field) {
			if r >= 'a' && r <= 'z' {
				sb.WriteRune(r)
			}
		}
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
		}
	}
	return tokens
}

// SynthesizePersonalPatterns emits first.last@, firstlast@ and f+last@ (e.g. jdoe@) for a
// discovered person. Names with fewer than two tokens produce nothing; a bare first@
// form is never produced. No deliverability check is made.
func SynthesizePersonalPatterns(person types.PersonRecord, domain string) []types.CandidateContact {
	domain = strings.ToLower(strings.TrimSpace(domain))
	tokens := NameTokens(person.Name)
	if len(tokens) < 2 || domain == "" {
		return nil
	}

	first := tokens[0]
	last := tokens[len(tokens)-1]

	forms := []struct {
		local   string
		pattern string
	}{
		{first + "." + last, PatternFirstDotLast},
		{first + last, PatternFirstLast},
		{first[:1] + last, PatternInitialLast},
	}

	seen := make(map[string]bool, len(forms))
	out := make([]types.CandidateContact, 0, len(forms))
	for _, f := range forms {
		if seen[f.local] {
			continue
		}
		seen[f.local] = true
		out = append(out, types.CandidateContact{
			Address:          f.local + "@" + domain,
			Kind:             types.KindPublicContact,
			Category:         types.CategoryGeneral,
			ConfidenceLevel:  types.ConfidenceLow,
			ConfidenceReason: fmt.Sprintf("pattern-based, unverified: %s form built from a name listed on the company's own site", f.pattern),
			SourceName:       strings.TrimSpace(person.Name),
			SourceTitle:      strings.TrimSpace(person.Title),
			EvidenceURL:      person.EvidenceURL,
		})
	}
	return out
}
