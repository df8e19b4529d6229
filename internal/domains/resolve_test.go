package domains

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCompanyName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Microsoft Corporation", "microsoft"},
		{"Acme, Inc.", "acme"},
		{"Acme Inc", "acme"},
		{"Globex LLC", "globex"},
		{"Initech Ltd.", "initech"},
		{"Umbrella Corp", "umbrella"},
		{"Stark Co.", "stark"},
		{"Wayne Enterprises plc", "wayneenterprises"},
		{"Cisco", "cisco"},
		{"Open AI", "openai"},
		{"Company", "company"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanCompanyName(tt.input))
		})
	}
}

func TestResolveCompanyDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Known with suffix", "Microsoft Corporation", "microsoft.com"},
		{"Known alias", "Facebook", "meta.com"},
		{"Known non-com", "Zoom", "zoom.us"},
		{"Unknown falls back to .com", "Acme Widgets Inc", "acmewidgets.com"},
		{"Empty", "", ""},
		{"Only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveCompanyDomain(tt.input))
		})
	}
}

func TestResolver_WithEntries(t *testing.T) {
	base := DefaultResolver()
	extended := base.WithEntries(map[string]string{"Acme Widgets, Inc.": "ACME.io"})

	assert.Equal(t, "acme.io", extended.Resolve("Acme Widgets"))
	assert.True(t, extended.Known("acme widgets"))
	assert.Equal(t, "acmewidgets.com", base.Resolve("Acme Widgets"))
	assert.False(t, base.Known("acme widgets"))
}
