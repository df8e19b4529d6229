package contacts

import (
	"errors"
	"sort"
	"strings"

	"github.com/jonathan/contact-finder/internal/roles"
	"github.com/jonathan/contact-finder/internal/types"
)

// ErrNoContacts signals that aggregation produced an empty list.
var ErrNoContacts = errors.New("no public contacts found for this domain")

// Aggregator merges, filters, categorizes, ranks and truncates candidates.
type Aggregator struct {
	filter *Filter
	table  *roles.InboxTable
}

// NewAggregator creates an aggregator. Nil arguments use the built-in defaults.
func NewAggregator(filter *Filter, table *roles.InboxTable) *Aggregator {
	if table == nil {
		table = roles.DefaultInboxTable()
	}
	if filter == nil {
		filter = NewFilter(nil, table)
	}
	return &Aggregator{filter: filter, table: table}
}

// Result holds the ranked candidates and what the filter removed.
type Result struct {
	Contacts []types.CandidateContact
	Rejected []Rejection
}

// Aggregate runs the full merge pipeline. A maxResults of zero or less disables
// truncation. An empty outcome returns ErrNoContacts alongside the rejections.
func (a *Aggregator) Aggregate(roleBased, personBased []types.CandidateContact, intent types.RoleIntent, maxResults int) (*Result, error) {
	merged := make([]types.CandidateContact, 0, len(roleBased)+len(personBased))
	merged = append(merged, roleBased...)
	merged = append(merged, personBased...)

	merged = Dedupe(merged)
	kept, rejected := a.filter.Apply(merged)

	for i := range kept {
		a.categorize(&kept[i])
	}

	rank := priority(intent)
	sort.SliceStable(kept, func(i, j int) bool {
		return rank[kept[i].Category] < rank[kept[j].Category]
	})

	if maxResults > 0 && len(kept) > maxResults {
		kept = kept[:maxResults]
	}

	res := &Result{Contacts: kept, Rejected: rejected}
	if len(kept) == 0 {
		return res, ErrNoContacts
	}
	return res, nil
}

func (a *Aggregator) categorize(c *types.CandidateContact) {
	category, ok := a.table.CategoryOf(lettersOnly(c.LocalPart()))
	if !ok {
		category = types.CategoryGeneral
	}
	c.Category = category

	if c.Kind == types.KindPublicContact {
		c.ConfidenceLevel = types.ConfidenceLow
		return
	}
	c.ConfidenceLevel = a.table.ConfidenceFor(category)
}

// Aggregate runs the built-in aggregator and returns only the contacts.
func Aggregate(roleBased, personBased []types.CandidateContact, intent types.RoleIntent, maxResults int) ([]types.CandidateContact, error) {
	res, err := NewAggregator(nil, nil).Aggregate(roleBased, personBased, intent, maxResults)
	if res == nil {
		return nil, err
	}
	return res.Contacts, err
}

// Dedupe keeps the first occurrence of each address, compared case-insensitively.
func Dedupe(candidates []types.CandidateContact) []types.CandidateContact {
	seen := make(map[string]bool, len(candidates))
	out := make([]types.CandidateContact, 0, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c.Address))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// RestrictToDomain drops candidates whose domain differs from the confirmed one.
func RestrictToDomain(candidates []types.CandidateContact, domain string) []types.CandidateContact {
	domain = strings.ToLower(strings.TrimSpace(domain))
	out := make([]types.CandidateContact, 0, len(candidates))
	for _, c := range candidates {
		if strings.EqualFold(c.DomainPart(), domain) {
			out = append(out, c)
		}
	}
	return out
}

// Hiring always leads; an engineering ask moves engineering ahead of the catch-all.
func priority(intent types.RoleIntent) map[types.Category]int {
	if intent == types.IntentEngineering {
		return map[types.Category]int{
			types.CategoryHiring:      0,
			types.CategoryEngineering: 1,
			types.CategoryGeneral:     2,
		}
	}
	return map[types.Category]int{
		types.CategoryHiring:      0,
		types.CategoryGeneral:     1,
		types.CategoryEngineering: 2,
	}
}

func lettersOnly(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
