package roles

import (
	"fmt"
	"strings"

	"github.com/jonathan/contact-finder/internal/types"
)

// InboxGroup is one row of the inbox table.
type InboxGroup struct {
	LocalParts []string
	Category   types.Category
	Confidence types.ConfidenceLevel
}

// InboxTable maps an intent to its departmental inboxes. The general group is
// appended to every intent as a fallback.
type InboxTable struct {
	groups  map[types.RoleIntent]InboxGroup
	general InboxGroup
}

// DefaultInboxTable returns the built-in table.
func DefaultInboxTable() *InboxTable {
	return NewInboxTable(map[types.RoleIntent]InboxGroup{
		types.IntentHiring: {
			LocalParts: []string{"careers", "recruiting", "talent", "hr"},
			Category:   types.CategoryHiring,
			Confidence: types.ConfidenceHigh,
		},
		types.IntentEngineering: {
			LocalParts: []string{"engineering", "dev", "tech"},
			Category:   types.CategoryEngineering,
			Confidence: types.ConfidenceMedium,
		},
		types.IntentGeneral: {
			LocalParts: []string{"info", "contact"},
			Category:   types.CategoryGeneral,
			Confidence: types.ConfidenceLow,
		},
	})
}

// NewInboxTable builds a table from groups keyed by intent. The general entry is required
// for a useful table; a missing one yields no fallback inboxes.
func NewInboxTable(groups map[types.RoleIntent]InboxGroup) *InboxTable {
	t := &InboxTable{groups: make(map[types.RoleIntent]InboxGroup, len(groups))}
	for intent, g := range groups {
		g.LocalParts = append([]string(nil), g.LocalParts...)
		if intent == types.IntentGeneral {
			t.general = g
			continue
		}
		t.groups[intent] = g
	}
	return t
}

// Generate emits the inboxes for an intent at the given domain: the intent's own group
// first, then the general fallback. Unknown intents get only the fallback.
func (t *InboxTable) Generate(intent types.RoleIntent, domain string) []types.CandidateContact {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil
	}

	var out []types.CandidateContact
	if g, ok := t.groups[intent]; ok {
		out = appendGroup(out, g, domain)
	}
	return appendGroup(out, t.general, domain)
}

// AllowedLocalParts returns every local-part the table can emit.
func (t *InboxTable) AllowedLocalParts() map[string]struct{} {
	allowed := make(map[string]struct{})
	for _, g := range t.groups {
		for _, lp := range g.LocalParts {
			allowed[lp] = struct{}{}
		}
	}
	for _, lp := range t.general.LocalParts {
		allowed[lp] = struct{}{}
	}
	return allowed
}

// CategoryOf returns the category whose keyword set contains the local-part exactly.
func (t *InboxTable) CategoryOf(localPart string) (types.Category, bool) {
	for _, g := range t.groups {
		for _, lp := range g.LocalParts {
			if lp == localPart {
				return g.Category, true
			}
		}
	}
	for _, lp := range t.general.LocalParts {
		if lp == localPart {
			return t.general.Category, true
		}
	}
	return "", false
}

// ConfidenceFor returns the confidence tied to a category, Low when unknown.
func (t *InboxTable) ConfidenceFor(category types.Category) types.ConfidenceLevel {
	for _, g := range t.groups {
		if g.Category == category {
			return g.Confidence
		}
	}
	if t.general.Category == category && t.general.Confidence != "" {
		return t.general.Confidence
	}
	return types.ConfidenceLow
}

func appendGroup(out []types.CandidateContact, g InboxGroup, domain string) []types.CandidateContact {
	for _, lp := range g.LocalParts {
		out = append(out, types.CandidateContact{
			Address:          lp + "@" + domain,
			Kind:             types.KindRoleBased,
			Category:         g.Category,
			ConfidenceLevel:  g.Confidence,
			ConfidenceReason: inboxReason(lp, g.Category),
		})
	}
	return out
}

func inboxReason(localPart string, category types.Category) string {
	return fmt.Sprintf("%s@ is a common %s departmental inbox pattern; not independently verified",
		localPart, strings.ToLower(string(category)))
}

// GenerateRoleInboxes emits the built-in inboxes for an intent.
func GenerateRoleInboxes(intent types.RoleIntent, domain string) []types.CandidateContact {
	return DefaultInboxTable().Generate(intent, domain)
}
