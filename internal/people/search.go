package people

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/contact-finder/internal/types"
)

// MaxSearchQueries caps Custom Search calls per lookup.
const MaxSearchQueries = 3

var (
	meetNameRe   = regexp.MustCompile(`(?:[Mm]eet|[Oo]ur team|[Aa]bout)\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`)
	nameTitleRe  = regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+),\s*([^,\n]+)`)
	irrelevantRe = regexp.MustCompile(`(?i)\b(jobs?|vacanc(y|ies)|news|press|blog|article|products?)\b`)
)

// SearchFinder finds people through site-restricted Google Custom Search queries.
type SearchFinder struct {
	svc    *customsearch.Service
	cx     string
	logger zerolog.Logger
}

// NewSearchFinder creates a SearchFinder. Extra client options are appended after the API key.
func NewSearchFinder(ctx context.Context, apiKey, cx string, logger zerolog.Logger, opts ...option.ClientOption) (*SearchFinder, error) {
	if apiKey == "" || cx == "" {
		return nil, &SourceError{Source: types.SourceSiteSearch, Message: "api key and search engine id are required"}
	}

	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &SearchFinder{svc: svc, cx: cx, logger: logger}, nil
}

// FindPublicPeople implements Finder. Only results served from the target domain are used.
func (s *SearchFinder) FindPublicPeople(ctx context.Context, q Query) ([]types.PersonRecord, error) {
	domain := strings.ToLower(strings.TrimSpace(q.Domain))
	if domain == "" {
		return nil, &SourceError{Source: types.SourceSiteSearch, Message: "domain is required"}
	}

	var people []types.PersonRecord
	var lastErr error
	failures := 0

	queries := BuildSearchQueries(domain, q.Intent, q.Location)
	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return people, &SourceError{Source: types.SourceSiteSearch, Message: "lookup cancelled", Cause: err}
		}

		resp, err := s.svc.Cse.List().Context(ctx).Cx(s.cx).Q(query).Num(10).Do()
		if err != nil {
			s.logger.Warn().Err(err).Str("query", query).Msg("custom search query failed")
			failures++
			lastErr = err
			continue
		}

		for _, item := range resp.Items {
			if !OnDomain(item.Link, domain) {
				continue
			}
			if person, ok := parseSearchItem(item, q.Company); ok {
				people = append(people, person)
			}
		}
	}

	if failures == len(queries) && lastErr != nil {
		return nil, &SourceError{Source: types.SourceSiteSearch, Message: "all queries failed", Cause: lastErr}
	}

	s.logger.Debug().Str("domain", domain).Int("people", len(people)).Msg("site search complete")
	return DedupePeople(people), nil
}

// BuildSearchQueries returns at most MaxSearchQueries queries, all restricted to domain.
func BuildSearchQueries(domain string, intent types.RoleIntent, location string) []string {
	site := "site:" + domain
	queries := []string{
		fmt.Sprintf(`%s "%s"`, site, intentSearchTerm(intent)),
		fmt.Sprintf(`%s "team" OR "staff" OR "about"`, site),
	}

	location = strings.TrimSpace(sanitizeQueryTerm(location))
	if location != "" {
		queries = append(queries, fmt.Sprintf(`%s "team" "%s"`, site, location))
	} else {
		queries = append(queries, fmt.Sprintf(`%s "leadership"`, site))
	}

	if len(queries) > MaxSearchQueries {
		queries = queries[:MaxSearchQueries]
	}
	return queries
}

func intentSearchTerm(intent types.RoleIntent) string {
	switch intent {
	case types.IntentHiring:
		return "recruiter"
	case types.IntentEngineering:
		return "engineering manager"
	default:
		return "our team"
	}
}

func sanitizeQueryTerm(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r == ':' {
			return -1
		}
		return r
	}, s)
}

func parseSearchItem(item *customsearch.Result, company string) (types.PersonRecord, bool) {
	content := item.Title + " " + item.Snippet
	if irrelevantRe.MatchString(content) {
		return types.PersonRecord{}, false
	}

	isName := func(s string) bool {
		return IsPersonName(s) && !mentionsCompany(s, company)
	}

	for _, text := range []string{item.Title, item.Snippet} {
		if m := meetNameRe.FindStringSubmatch(text); m != nil && isName(m[1]) {
			return types.PersonRecord{
				Name:        m[1],
				EvidenceURL: item.Link,
				Source:      types.SourceSiteSearch,
			}, true
		}

		for _, m := range nameTitleRe.FindAllStringSubmatch(text, -1) {
			if !isName(m[1]) {
				continue
			}
			title := CleanTitle(m[2])
			if !IsPlausibleTitle(title) {
				title = ""
			}
			return types.PersonRecord{
				Name:        m[1],
				Title:       title,
				EvidenceURL: item.Link,
				Source:      types.SourceSiteSearch,
			}, true
		}
	}

	return types.PersonRecord{}, false
}

// mentionsCompany catches "About Acme Labs" style matches where the company name
// itself has the shape of a person name.
func mentionsCompany(name, company string) bool {
	companyWords := strings.Fields(strings.ToLower(company))
	for _, w := range strings.Fields(strings.ToLower(name)) {
		for _, cw := range companyWords {
			if w == cw {
				return true
			}
		}
	}
	return false
}
