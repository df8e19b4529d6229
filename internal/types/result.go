package types

// ErrorKind classifies a failed discovery request.
type ErrorKind string

// ErrorKind values
const (
	ErrorKindInvalidInput       ErrorKind = "invalid_input"
	ErrorKindDomainUnconfigured ErrorKind = "domain_unconfigured"
	ErrorKindDomainConflict     ErrorKind = "domain_conflict"
	ErrorKindCanceled           ErrorKind = "canceled"
)

// Source names reported in ContactResult.Sources
const (
	SourceRoleInbox  = "role-inbox"
	SourceSiteSearch = "site-search"
	SourceSiteScrape = "site-scrape"
)

// ContactResult is the response envelope returned to the host application.
type ContactResult struct {
	Success   bool               `json:"success"`
	Contacts  []CandidateContact `json:"contacts"`
	Count     int                `json:"count"`
	Message   string             `json:"message,omitempty"`
	Cached    bool               `json:"cached"`
	Company   string             `json:"company,omitempty"`
	Domain    string             `json:"domain,omitempty"`
	Intent    RoleIntent         `json:"intent,omitempty"`
	Sources   []string           `json:"sources"`
	ErrorKind ErrorKind          `json:"error_kind,omitempty"`
}

// Clone returns a deep copy so cached envelopes are never mutated by callers.
func (r *ContactResult) Clone() *ContactResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Contacts = make([]CandidateContact, len(r.Contacts))
	copy(out.Contacts, r.Contacts)
	out.Sources = make([]string, len(r.Sources))
	copy(out.Sources, r.Sources)
	return &out
}
