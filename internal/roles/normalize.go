// Package roles maps free-text outreach roles to intents and emits the departmental
// inboxes that fit each intent.
package roles

import (
	"strings"

	"github.com/jonathan/contact-finder/internal/types"
)

// Checked in order: hiring wins over engineering, anything else is general.
var (
	hiringTerms      = []string{"recruit", "hr", "human resources", "hiring"}
	engineeringTerms = []string{"engineer", "developer", "software", "dev", "tech"}
)

// NormalizeRole maps a free-text role or purpose to exactly one intent.
// Matching is case-insensitive substring matching.
func NormalizeRole(raw string) types.RoleIntent {
	r := strings.ToLower(strings.TrimSpace(raw))
	if r == "" {
		return types.IntentGeneral
	}
	if containsAny(r, hiringTerms) {
		return types.IntentHiring
	}
	if containsAny(r, engineeringTerms) {
		return types.IntentEngineering
	}
	return types.IntentGeneral
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
