// Package types provides type definitions for structured data used throughout the contact-finder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CompanyTarget identifies the company a discovery request is about.
// Domain is fixed once confirmed and never replaced by a later guess.
type CompanyTarget struct {
	Name         string `json:"name"`
	Domain       string `json:"domain"`
	LocationHint string `json:"location_hint,omitempty"`
}
