// Package people finds named individuals on a company's own web pages.
//
// Every Finder is restricted to the target domain. Third-party profile sites are
// never queried.
package people

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/contact-finder/internal/types"
)

// Query describes one sourcing request.
type Query struct {
	Company  string
	Domain   string
	Intent   types.RoleIntent
	Location string
}

// Finder returns public person records for a company domain.
type Finder interface {
	FindPublicPeople(ctx context.Context, q Query) ([]types.PersonRecord, error)
}

// FinderFunc adapts a function to the Finder interface.
type FinderFunc func(ctx context.Context, q Query) ([]types.PersonRecord, error)

// FindPublicPeople implements Finder.
func (f FinderFunc) FindPublicPeople(ctx context.Context, q Query) ([]types.PersonRecord, error) {
	return f(ctx, q)
}

// NopFinder never finds anyone.
type NopFinder struct{}

// FindPublicPeople implements Finder.
func (NopFinder) FindPublicPeople(context.Context, Query) ([]types.PersonRecord, error) {
	return nil, nil
}

// StaticFinder serves fixed records keyed by domain.
type StaticFinder struct {
	records map[string][]types.PersonRecord
}

// NewStaticFinder creates a finder from records keyed by domain.
func NewStaticFinder(records map[string][]types.PersonRecord) *StaticFinder {
	normalized := make(map[string][]types.PersonRecord, len(records))
	for domain, people := range records {
		key := strings.ToLower(strings.TrimSpace(domain))
		normalized[key] = append(normalized[key], people...)
	}
	return &StaticFinder{records: normalized}
}

// LoadStaticFinder reads a JSON object mapping domains to person records.
func LoadStaticFinder(path string) (*StaticFinder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read people file: %w", err)
	}

	var records map[string][]types.PersonRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse people file: %w", err)
	}
	return NewStaticFinder(records), nil
}

// FindPublicPeople implements Finder.
func (s *StaticFinder) FindPublicPeople(_ context.Context, q Query) ([]types.PersonRecord, error) {
	people := s.records[strings.ToLower(strings.TrimSpace(q.Domain))]
	out := make([]types.PersonRecord, len(people))
	copy(out, people)
	return out, nil
}
