package people

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/rs/zerolog"

	"github.com/jonathan/contact-finder/internal/fetch"
	"github.com/jonathan/contact-finder/internal/types"
)

// DefaultScrapePaths are the company pages most likely to list staff.
var DefaultScrapePaths = []string{
	"/about",
	"/team",
	"/about-us",
	"/our-team",
	"/staff",
	"/leadership",
	"/management",
	"/careers",
	"/contact",
}

const (
	DefaultScrapeDelay = 500 * time.Millisecond
	DefaultMaxPeople   = 10
	DefaultPageTimeout = 10 * time.Second
	maxBrowserPages    = 2
	maxTextMatches     = 20
)

const (
	teamSectionSelector = `[class*="team"], [id*="team"], [class*="staff"], [id*="staff"], [class*="about"], [id*="about"]`
	memberSelector      = `.team-member, .staff-member, .person, .employee, [class*="member"], [class*="person"], .card, .profile, .bio`
)

var (
	nameSelectors  = []string{".name, .fullname, .person-name, .member-name", "h1, h2, h3, h4, h5, h6", "strong, b"}
	titleSelectors = []string{".title, .role, .position, .job-title", ".subtitle, .description", "p, .text", "em, .italic"}

	textNameTitleRe = regexp.MustCompile(`([A-Z][a-z]+ [A-Z][a-z]+)\s*(?:,|-|–|\|)\s*([A-Z][^,.|]{1,60})`)
	textServesAsRe  = regexp.MustCompile(`([A-Z][a-z]+ [A-Z][a-z]+)\s*(?:is|serves as|works as)\s+(?:the |our |an? )?([A-Z][^,.]{1,60})`)
)

// SiteScraper collects team members from a company's own about and team pages.
type SiteScraper struct {
	paths       []string
	delay       time.Duration
	maxPeople   int
	pageTimeout time.Duration
	baseURL     func(domain string) string
	renderer    fetch.Renderer
	logger      zerolog.Logger
}

// ScraperOption configures a SiteScraper.
type ScraperOption func(*SiteScraper)

// WithPaths replaces the page paths to visit.
func WithPaths(paths ...string) ScraperOption {
	return func(s *SiteScraper) { s.paths = paths }
}

// WithDelay sets the pause between page requests.
func WithDelay(d time.Duration) ScraperOption {
	return func(s *SiteScraper) { s.delay = d }
}

// WithMaxPeople caps the records returned per domain.
func WithMaxPeople(n int) ScraperOption {
	return func(s *SiteScraper) { s.maxPeople = n }
}

// WithPageTimeout bounds each page request.
func WithPageTimeout(d time.Duration) ScraperOption {
	return func(s *SiteScraper) { s.pageTimeout = d }
}

// WithRenderer enables a browser retry for pages that come back nearly empty.
func WithRenderer(r fetch.Renderer) ScraperOption {
	return func(s *SiteScraper) { s.renderer = r }
}

// WithBaseURL overrides how the site root is built from a domain.
func WithBaseURL(fn func(domain string) string) ScraperOption {
	return func(s *SiteScraper) { s.baseURL = fn }
}

// NewSiteScraper creates a scraper with the default page list and politeness settings.
func NewSiteScraper(logger zerolog.Logger, opts ...ScraperOption) *SiteScraper {
	s := &SiteScraper{
		paths:       DefaultScrapePaths,
		delay:       DefaultScrapeDelay,
		maxPeople:   DefaultMaxPeople,
		pageTimeout: DefaultPageTimeout,
		baseURL:     func(domain string) string { return "https://" + domain },
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindPublicPeople implements Finder. Requests never leave the target domain and
// robots.txt is honored.
func (s *SiteScraper) FindPublicPeople(ctx context.Context, q Query) ([]types.PersonRecord, error) {
	domain := strings.ToLower(strings.TrimSpace(q.Domain))
	if domain == "" {
		return nil, &SourceError{Source: types.SourceSiteScrape, Message: "domain is required"}
	}

	if err := ctx.Err(); err != nil {
		return nil, &SourceError{Source: types.SourceSiteScrape, Message: "scrape of " + domain + " canceled", Cause: err}
	}

	base := strings.TrimRight(s.baseURL(domain), "/")
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Host == "" {
		return nil, &SourceError{Source: types.SourceSiteScrape, Message: "invalid base url " + base, Cause: err}
	}

	c := colly.NewCollector(
		colly.UserAgent(fetch.DefaultUserAgent),
		colly.AllowedDomains(allowedHosts(domain, baseURL)...),
		colly.MaxDepth(1),
	)
	c.IgnoreRobotsTxt = false
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: s.delay}); err != nil {
		return nil, &SourceError{Source: types.SourceSiteScrape, Message: "invalid limit rule", Cause: err}
	}

	var (
		people    []types.PersonRecord
		thinPages []string
		fetched   int
		lastErr   error
	)

	c.OnResponse(func(r *colly.Response) {
		fetched++
		pageURL := r.Request.URL.String()
		found := ExtractPeople(r.Body, pageURL)
		people = append(people, found...)

		if len(found) == 0 && s.renderer != nil {
			text, err := fetch.ExtractMainText(string(r.Body), fetch.TeamPageSelectors())
			if err == nil && fetch.ShouldUseBrowser(text) {
				thinPages = append(thinPages, pageURL)
			}
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		s.logger.Debug().Err(err).Str("url", r.Request.URL.String()).Int("status", r.StatusCode).Msg("page fetch failed")
	})

	// colly requests are not context aware, so the crawl runs on its own goroutine
	// and is abandoned when ctx ends. Each request is capped at the time remaining.
	done := make(chan error, 1)
	go func() {
		var visitErr error
		for _, path := range s.paths {
			if err := ctx.Err(); err != nil {
				visitErr = err
				break
			}
			if len(DedupePeople(people)) >= s.maxPeople {
				break
			}
			c.SetRequestTimeout(s.requestTimeout(ctx))
			if err := c.Visit(base + path); err != nil {
				visitErr = err
				s.logger.Debug().Err(err).Str("path", path).Msg("skipping page")
			}
		}
		done <- visitErr
	}()

	select {
	case <-ctx.Done():
		return nil, &SourceError{Source: types.SourceSiteScrape, Message: "scrape of " + domain + " did not finish in time", Cause: ctx.Err()}
	case lastErr = <-done:
	}

	for i, pageURL := range thinPages {
		if i >= maxBrowserPages || ctx.Err() != nil {
			break
		}
		html, err := s.renderer.Render(ctx, pageURL)
		if err != nil {
			s.logger.Debug().Err(err).Str("url", pageURL).Msg("browser render failed")
			continue
		}
		people = append(people, ExtractPeople([]byte(html), pageURL)...)
	}

	if err := ctx.Err(); err != nil {
		return nil, &SourceError{Source: types.SourceSiteScrape, Message: "scrape of " + domain + " did not finish in time", Cause: err}
	}
	if fetched == 0 && lastErr != nil {
		return nil, &SourceError{Source: types.SourceSiteScrape, Message: "no pages could be fetched from " + domain, Cause: lastErr}
	}

	people = DedupePeople(people)
	if len(people) > s.maxPeople {
		people = people[:s.maxPeople]
	}

	s.logger.Debug().Str("domain", domain).Int("pages", fetched).Int("people", len(people)).Msg("site scrape complete")
	return people, nil
}

// requestTimeout is the page timeout, shortened to whatever is left before ctx's deadline.
func (s *SiteScraper) requestTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return s.pageTimeout
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return time.Millisecond
	}
	return min(remaining, s.pageTimeout)
}

func allowedHosts(domain string, base *url.URL) []string {
	hosts := []string{domain, "www." + domain, base.Host}
	if hostname := base.Hostname(); hostname != base.Host {
		hosts = append(hosts, hostname)
	}
	return hosts
}

// ExtractPeople pulls person records out of a page using structured data, team-card
// markup and "Name, Title" text patterns. Only strict person names are returned.
func ExtractPeople(body []byte, pageURL string) []types.PersonRecord {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var people []types.PersonRecord
	add := func(name, title string) {
		name = CleanName(name)
		if !IsPersonName(name) {
			return
		}
		title = CleanTitle(title)
		if !IsPlausibleTitle(title) || title == name {
			title = ""
		}
		people = append(people, types.PersonRecord{
			Name:        name,
			Title:       title,
			EvidenceURL: pageURL,
			Source:      types.SourceSiteScrape,
		})
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, script *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
			return
		}
		for _, p := range peopleFromJSONLD(data) {
			add(p[0], p[1])
		}
	})

	doc.Find("script, style, noscript").Remove()

	doc.Find(teamSectionSelector).Each(func(_ int, section *goquery.Selection) {
		section.Find(memberSelector).Each(func(_ int, member *goquery.Selection) {
			if name, title, ok := personFromCard(member); ok {
				add(name, title)
			}
		})
	})

	lines := textLines(doc.Find("body"))
	matches := 0
	for i, line := range lines {
		if matches >= maxTextMatches {
			break
		}
		if IsPersonName(line) {
			title := ""
			if i+1 < len(lines) && !IsPersonName(lines[i+1]) {
				title = lines[i+1]
			}
			add(line, title)
			matches++
			continue
		}
		for _, re := range []*regexp.Regexp{textNameTitleRe, textServesAsRe} {
			if m := re.FindStringSubmatch(line); m != nil && IsPersonName(m[1]) {
				add(m[1], m[2])
				matches++
				break
			}
		}
	}

	return people
}

func personFromCard(member *goquery.Selection) (string, string, bool) {
	var name string
	for _, sel := range nameSelectors {
		text := strings.TrimSpace(member.Find(sel).First().Text())
		if IsPersonName(CleanName(text)) {
			name = text
			break
		}
	}
	if name == "" {
		return "", "", false
	}

	for _, sel := range titleSelectors {
		text := strings.TrimSpace(member.Find(sel).First().Text())
		if text != "" && text != name && IsPlausibleTitle(text) {
			return name, text, true
		}
	}
	return name, "", true
}

// textLines returns the page's text nodes in document order, one per entry.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "#text" {
			if t := strings.TrimSpace(node.Text()); t != "" {
				lines = append(lines, t)
			}
			return
		}
		lines = append(lines, textLines(node)...)
	})
	return lines
}

// peopleFromJSONLD walks schema.org data and returns [name, jobTitle] pairs for every Person.
func peopleFromJSONLD(data any) [][2]string {
	var out [][2]string
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			out = append(out, peopleFromJSONLD(item)...)
		}
	case map[string]any:
		if isPersonType(v["@type"]) {
			if name, ok := v["name"].(string); ok {
				title, _ := v["jobTitle"].(string)
				out = append(out, [2]string{name, title})
			}
			return out
		}
		for _, key := range []string{"employee", "employees", "member", "founder", "@graph"} {
			if nested, ok := v[key]; ok {
				out = append(out, peopleFromJSONLD(nested)...)
			}
		}
	}
	return out
}

func isPersonType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Person"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Person" {
				return true
			}
		}
	}
	return false
}
