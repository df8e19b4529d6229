package people

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jonathan/contact-finder/internal/types"
)

var (
	personNameRe = regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+$`)
	nameJunkRe   = regexp.MustCompile(`[^\w\s.\-']`)
	titleJunkRe  = regexp.MustCompile(`[^\w\s.\-,&()/]`)
	spacesRe     = regexp.MustCompile(`\s+`)
	titleAtRe    = regexp.MustCompile(`(?i)\s+at\s+.+$`)
	titlePipeRe  = regexp.MustCompile(`\s*\|\s*.+$`)
	titleDashRe  = regexp.MustCompile(`^\s*[-–]\s*`)
	badTitleRe   = regexp.MustCompile(`^\d+$|^[a-z]|[@]`)
	titleNoiseRe = regexp.MustCompile(`(?i)contact|email|phone|address|website|lorem|ipsum|dolor|amet`)
)

// Maximum edit distance between two name keys treated as the same person.
const dupeMaxDistance = 1

// Words that look like names in headers and navigation but never are.
var notNameWords = map[string]bool{
	"about": true, "team": true, "contact": true, "careers": true, "privacy": true,
	"our": true, "meet": true, "the": true, "join": true, "us": true, "home": true,
	"leadership": true, "management": true, "staff": true, "company": true, "people": true,
	"email": true, "phone": true, "address": true, "read": true, "more": true, "learn": true,
	"view": true, "profile": true, "follow": true, "board": true, "directors": true,
	"press": true, "news": true, "blog": true, "terms": true, "policy": true, "legal": true,
	"services": true, "products": true, "solutions": true, "jobs": true, "open": true,
	"positions": true, "customer": true, "support": true, "sales": true, "marketing": true,
	"engineering": true, "hiring": true, "human": true, "resources": true, "chief": true,
	"officer": true, "head": true, "senior": true, "director": true, "manager": true,
	"founder": true, "cofounder": true, "executive": true, "vice": true, "president": true,
	"partner": true, "lead": true, "data": true, "protection": true, "security": true,
	"office": true, "offices": true, "location": true, "locations": true, "get": true,
	"in": true, "touch": true, "sign": true, "up": true, "log": true, "new": true,
}

// IsPersonName reports whether s is exactly two capitalized words, neither of which is
// a generic page or job-title word.
func IsPersonName(s string) bool {
	s = strings.TrimSpace(s)
	if !personNameRe.MatchString(s) {
		return false
	}
	for _, word := range strings.Fields(s) {
		if notNameWords[strings.ToLower(word)] {
			return false
		}
	}
	return true
}

// CleanName strips punctuation other than dots, hyphens and apostrophes and collapses whitespace.
func CleanName(name string) string {
	name = nameJunkRe.ReplaceAllString(name, "")
	return strings.TrimSpace(spacesRe.ReplaceAllString(name, " "))
}

// CleanTitle removes trailing "at Company" and "| Site" fragments and stray symbols.
func CleanTitle(title string) string {
	title = titlePipeRe.ReplaceAllString(title, "")
	title = titleAtRe.ReplaceAllString(title, "")
	title = titleDashRe.ReplaceAllString(title, "")
	title = titleJunkRe.ReplaceAllString(title, "")
	return strings.TrimSpace(spacesRe.ReplaceAllString(title, " "))
}

// IsPlausibleTitle rejects fragments that are clearly not job titles.
func IsPlausibleTitle(title string) bool {
	title = strings.TrimSpace(title)
	if len(title) < 3 || len(title) > 100 {
		return false
	}
	return !badTitleRe.MatchString(title) && !titleNoiseRe.MatchString(title)
}

// OnDomain reports whether rawURL points at domain or one of its subdomains.
func OnDomain(rawURL, domain string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// DedupePeople merges records whose names match after removing case and spaces. Two
// records from different sources whose last names agree and whose full names differ
// by a single edit are also merged (a typo across sources). The first record wins;
// an empty title is filled from a later duplicate.
func DedupePeople(records []types.PersonRecord) []types.PersonRecord {
	out := make([]types.PersonRecord, 0, len(records))
	keys := make([]string, 0, len(records))

	for _, r := range records {
		key := nameKey(r.Name)
		if key == "" {
			continue
		}

		dup := -1
		for i, k := range keys {
			if k == key || sourceTypo(out[i], r, k, key) {
				dup = i
				break
			}
		}

		if dup >= 0 {
			if out[dup].Title == "" && r.Title != "" {
				out[dup].Title = r.Title
			}
			continue
		}
		keys = append(keys, key)
		out = append(out, r)
	}
	return out
}

func sourceTypo(a, b types.PersonRecord, keyA, keyB string) bool {
	if a.Source == b.Source || len(keyB) < 8 {
		return false
	}
	if lastNameKey(a.Name) != lastNameKey(b.Name) {
		return false
	}
	return levenshtein.ComputeDistance(keyA, keyB) <= dupeMaxDistance
}

func lastNameKey(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}

// Sanitize cleans names and titles and keeps only strict person names whose evidence
// lives on domain, deduplicated and capped at limit (0 means no cap).
func Sanitize(records []types.PersonRecord, domain string, limit int) []types.PersonRecord {
	kept := make([]types.PersonRecord, 0, len(records))
	for _, r := range records {
		r.Name = CleanName(r.Name)
		r.Title = CleanTitle(r.Title)
		if !IsPersonName(r.Name) || !OnDomain(r.EvidenceURL, domain) {
			continue
		}
		kept = append(kept, r)
	}

	kept = DedupePeople(kept)
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
