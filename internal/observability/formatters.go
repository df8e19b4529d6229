// Package observability provides formatted output utilities for the text CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/contact-finder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for text mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintContactResult outputs a human-readable summary of a discovery envelope.
func (p *Printer) PrintContactResult(result *types.ContactResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", result.Company))
	if result.Domain != "" {
		sb.WriteString(fmt.Sprintf("Domain:   %s\n", result.Domain))
	}
	sb.WriteString(fmt.Sprintf("Intent:   %s\n", result.Intent))
	if len(result.Sources) > 0 {
		sb.WriteString(fmt.Sprintf("Sources:  %s\n", strings.Join(result.Sources, ", ")))
	}
	if result.Cached {
		sb.WriteString("Cached:   yes\n")
	}

	if !result.Success {
		sb.WriteString(fmt.Sprintf("\nFailed (%s): %s", result.ErrorKind, result.Message))
		p.printBox("CONTACT DISCOVERY", sb.String())
		return
	}

	if len(result.Contacts) == 0 {
		sb.WriteString("\n" + result.Message)
		p.printBox("CONTACT DISCOVERY", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("\n%d contacts:\n\n", result.Count))
	count := min(len(result.Contacts), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := result.Contacts[i]
		sb.WriteString(fmt.Sprintf("#%-2d %-34s %-11s %s\n", i+1, c.Address, c.Category, c.ConfidenceLevel))
		if c.SourceName != "" {
			from := c.SourceName
			if c.SourceTitle != "" {
				from += ", " + c.SourceTitle
			}
			sb.WriteString(fmt.Sprintf("    from: %s\n", from))
		}
	}
	if len(result.Contacts) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Contacts)-maxItemsToShow))
	}

	p.printBox("CONTACT DISCOVERY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPeople outputs the person records found for a domain.
func (p *Printer) PrintPeople(domain string, records []types.PersonRecord) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Domain: %s\n", domain))

	if len(records) == 0 {
		sb.WriteString("\nNo people found on the company's own pages")
		p.printBox("PUBLIC PEOPLE", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("\n%d people:\n\n", len(records)))
	count := min(len(records), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := records[i]
		line := "• " + r.Name
		if r.Title != "" {
			line += " (" + r.Title + ")"
		}
		sb.WriteString(line + "\n")
		if r.EvidenceURL != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", r.EvidenceURL))
		}
	}
	if len(records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(records)-maxItemsToShow))
	}

	p.printBox("PUBLIC PEOPLE", strings.TrimSuffix(sb.String(), "\n"))
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
