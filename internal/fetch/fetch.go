// Package fetch holds page-rendering and HTML-to-text helpers shared by the people scrapers.
package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultUserAgent identifies the scraper to company sites.
const DefaultUserAgent = "Mozilla/5.0 (compatible; OutreachAgent/1.0)"

// MinContentLength is the minimum extracted text length for a page to count as server-rendered.
// Shorter pages are likely JavaScript-rendered and may be retried in a browser.
const MinContentLength = 500

// Error represents an error while retrieving or rendering a page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()

	if len(noiseSelectors) > 0 {
		if noiseSelector := strings.Join(noiseSelectors, ", "); noiseSelector != "" {
			doc.Find(noiseSelector).Remove()
		}
	}

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}

	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(mainContent.Text()), nil
}

// TeamPageSelectors returns selectors for team, about and leadership pages.
func TeamPageSelectors() []string {
	return []string{
		"main",
		"article",
		".team",
		"#team",
		".about-content",
		".leadership",
		".content",
		"#content",
	}
}

// cleanWhitespace trims each line and drops blank ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
