package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/contact-finder/internal/domains"
	"github.com/jonathan/contact-finder/internal/people"
	"github.com/jonathan/contact-finder/internal/ratelimit"
	"github.com/jonathan/contact-finder/internal/roles"
	"github.com/jonathan/contact-finder/internal/types"
)

type fakeMail struct {
	mu      sync.Mutex
	domains map[string]bool
	checked []string
}

func newFakeMail(mailDomains ...string) *fakeMail {
	m := &fakeMail{domains: make(map[string]bool)}
	for _, d := range mailDomains {
		m.domains[d] = true
	}
	return m
}

func (f *fakeMail) HasMXRecords(_ context.Context, domain string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, domain)
	return f.domains[domain]
}

// slowMail answers after delay, or fails closed when the lookup context ends first.
type slowMail struct {
	delay time.Duration
}

func (m slowMail) HasMXRecords(ctx context.Context, _ string) bool {
	select {
	case <-time.After(m.delay):
		return true
	case <-ctx.Done():
		return false
	}
}

type countingFinder struct {
	calls     int32
	records   []types.PersonRecord
	err       error
	delay     time.Duration
	ignoreCtx bool
}

func (f *countingFinder) FindPublicPeople(ctx context.Context, _ people.Query) ([]types.PersonRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.ignoreCtx {
		time.Sleep(f.delay)
		return f.records, f.err
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.records, f.err
}

func (f *countingFinder) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

func newTestService(opts Options) *Service {
	if opts.MailChecker == nil {
		opts.MailChecker = newFakeMail("acme.com", "microsoft.com", "stripe.com", "other.com")
	}
	opts.Logger = zerolog.Nop()
	return NewService(opts)
}

func addressesOf(list []types.CandidateContact) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Address
	}
	return out
}

var janeDoe = types.PersonRecord{
	Name:        "Jane Doe",
	Title:       "Head of Talent",
	EvidenceURL: "https://acme.com/team",
	Source:      types.SourceSiteScrape,
}

func TestFindCompanyContacts_HiringWithoutPeople(t *testing.T) {
	svc := newTestService(Options{Finder: people.NopFinder{}})

	res := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com", Role: "Senior Recruiter"})

	require.True(t, res.Success, res.Message)
	assert.Equal(t, types.IntentHiring, res.Intent)
	assert.Equal(t, "acme.com", res.Domain)
	assert.Equal(t, []string{
		"careers@acme.com", "recruiting@acme.com", "talent@acme.com", "hr@acme.com",
		"info@acme.com", "contact@acme.com",
	}, addressesOf(res.Contacts))
	assert.Equal(t, 6, res.Count)
	assert.Equal(t, []string{types.SourceRoleInbox}, res.Sources)
	assert.False(t, res.Cached)

	for _, c := range res.Contacts {
		assert.Contains(t, []types.ConfidenceLevel{types.ConfidenceHigh, types.ConfidenceLow}, c.ConfidenceLevel)
		assert.Equal(t, types.KindRoleBased, c.Kind)
		assert.Empty(t, c.SourceName)
	}
}

func TestFindCompanyContacts_SynthesizesFromDiscoveredName(t *testing.T) {
	finder := &countingFinder{records: []types.PersonRecord{janeDoe}}
	svc := newTestService(Options{Finder: finder})

	res := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com", Role: "recruiter", MaxResults: 20})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 1, finder.Calls())

	var personal []types.CandidateContact
	for _, c := range res.Contacts {
		if c.IsPersonDerived() {
			personal = append(personal, c)
		}
	}
	assert.Equal(t, []string{"jane.doe@acme.com", "janedoe@acme.com", "jdoe@acme.com"}, addressesOf(personal))
	for _, c := range personal {
		assert.Equal(t, types.ConfidenceLow, c.ConfidenceLevel)
		assert.Equal(t, "Jane Doe", c.SourceName)
		assert.Equal(t, "https://acme.com/team", c.EvidenceURL)
		assert.Contains(t, c.ConfidenceReason, "pattern-based, unverified")
	}
	assert.Equal(t, []string{types.SourceRoleInbox, types.SourceSiteScrape}, res.Sources)
}

func TestFindCompanyContacts_EveryAddressOnConfirmedDomain(t *testing.T) {
	finder := &countingFinder{records: []types.PersonRecord{
		janeDoe,
		{Name: "John Smith", EvidenceURL: "https://blog.other.com/post", Source: types.SourceSiteSearch},
	}}
	svc := newTestService(Options{Finder: finder})

	res := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "ACME.com", MaxResults: 50})
	require.True(t, res.Success)

	seen := make(map[string]bool)
	for _, c := range res.Contacts {
		assert.Equal(t, "acme.com", c.DomainPart(), c.Address)
		key := strings.ToLower(c.Address)
		assert.False(t, seen[key], "duplicate address %s", c.Address)
		seen[key] = true
		assert.NotContains(t, c.Address, "john")
	}
}

func TestFindCompanyContacts_SensitiveTitleNeverLeaks(t *testing.T) {
	finder := &countingFinder{records: []types.PersonRecord{{
		Name:        "Dana Smith",
		Title:       "Privacy Officer",
		EvidenceURL: "https://acme.com/about",
		Source:      types.SourceSiteScrape,
	}}}
	svc := newTestService(Options{Finder: finder})

	res := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com", MaxResults: 50})
	require.True(t, res.Success)
	assert.Contains(t, addressesOf(res.Contacts), "dana.smith@acme.com")
	for _, c := range res.Contacts {
		assert.NotContains(t, c.LocalPart(), "privacy")
	}
}

func TestFindCompanyContacts_ResolvesDomainFromName(t *testing.T) {
	mail := newFakeMail("stripe.com")
	svc := newTestService(Options{MailChecker: mail})

	res := svc.FindCompanyContacts(context.Background(), Request{Company: "Stripe, Inc.", Role: "Backend Developer"})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "stripe.com", res.Domain)
	assert.Equal(t, types.IntentEngineering, res.Intent)
	assert.Equal(t, []string{"stripe.com"}, mail.checked)
	assert.Equal(t, "engineering@stripe.com", res.Contacts[0].Address)
}

func TestFindCompanyContacts_LargeCompanySkipsSourcing(t *testing.T) {
	finder := &countingFinder{records: []types.PersonRecord{{Name: "Satya Nadella", EvidenceURL: "https://microsoft.com/about"}}}
	svc := newTestService(Options{Finder: finder})

	res := svc.FindCompanyContacts(context.Background(), Request{Company: "Microsoft Corporation"})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "microsoft.com", res.Domain)
	assert.Equal(t, 0, finder.Calls())
	for _, c := range res.Contacts {
		assert.Equal(t, types.KindRoleBased, c.Kind)
	}
}

func TestFindCompanyContacts_CollaboratorFailureDegrades(t *testing.T) {
	tests := []struct {
		name   string
		finder *countingFinder
		opts   Options
	}{
		{
			name:   "error",
			finder: &countingFinder{err: errors.New("search backend unavailable")},
		},
		{
			name:   "timeout",
			finder: &countingFinder{records: []types.PersonRecord{janeDoe}, delay: time.Second},
			opts:   Options{SourcingTimeout: 20 * time.Millisecond},
		},
		{
			name:   "late results after deadline",
			finder: &countingFinder{records: []types.PersonRecord{janeDoe}, delay: 100 * time.Millisecond, ignoreCtx: true},
			opts:   Options{SourcingTimeout: 20 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Finder = tt.finder
			svc := newTestService(tt.opts)

			res := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com", Role: "hiring"})
			require.True(t, res.Success, res.Message)
			assert.Equal(t, 6, res.Count)
			assert.Empty(t, res.ErrorKind)
			for _, c := range res.Contacts {
				assert.Equal(t, types.KindRoleBased, c.Kind)
			}
		})
	}
}

func TestFindCompanyContacts_RateLimitedSourcingDegrades(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{Enabled: true, Limit: 1, Burst: 1, Window: time.Hour})
	defer limiter.Stop()

	finder := &countingFinder{records: []types.PersonRecord{janeDoe}}
	svc := newTestService(Options{Finder: finder, Limiter: limiter})

	first := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com", MaxResults: 50, NoCache: true})
	second := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com", MaxResults: 50, NoCache: true})

	assert.Equal(t, 1, finder.Calls())
	assert.Contains(t, addressesOf(first.Contacts), "jane.doe@acme.com")
	assert.NotContains(t, addressesOf(second.Contacts), "jane.doe@acme.com")
	assert.True(t, second.Success)
}

func TestFindCompanyContacts_InputErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		kind    types.ErrorKind
		message string
	}{
		{"missing company", Request{}, types.ErrorKindInvalidInput, "company"},
		{"blank company", Request{Company: "   "}, types.ErrorKindInvalidInput, "company"},
		{"punctuation company", Request{Company: ", ."}, types.ErrorKindInvalidInput, "company"},
		{"domain without dot", Request{Company: "Acme", Domain: "hr"}, types.ErrorKindInvalidInput, "no dot"},
		{"generic domain root", Request{Company: "Acme", Domain: "marketing.io"}, types.ErrorKindInvalidInput, "generic"},
		{"negative budget", Request{Company: "Acme", MaxResults: -1}, types.ErrorKindInvalidInput, "max_results"},
		{"budget too large", Request{Company: "Acme", MaxResults: MaxAllowedResults + 1}, types.ErrorKindInvalidInput, "max_results"},
		{"no mail exchangers", Request{Company: "Acme", Domain: "nomail.com"}, types.ErrorKindDomainUnconfigured, MessageDomainUnconfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &countingFinder{records: []types.PersonRecord{janeDoe}}
			svc := newTestService(Options{Finder: finder})

			res := svc.FindCompanyContacts(context.Background(), tt.req)
			require.NotNil(t, res)
			assert.False(t, res.Success)
			assert.Equal(t, tt.kind, res.ErrorKind)
			assert.Contains(t, res.Message, tt.message)
			assert.Empty(t, res.Contacts)
			assert.NotNil(t, res.Contacts)
			assert.Zero(t, res.Count)
			assert.Zero(t, finder.Calls())
		})
	}
}

func TestFindCompanyContacts_DomainIsImmutableOnceConfirmed(t *testing.T) {
	registry := domains.NewMemoryRegistry()
	svc := newTestService(Options{Registry: registry})
	ctx := context.Background()

	first := svc.FindCompanyContacts(ctx, Request{Company: "Acme", Domain: "acme.com"})
	require.True(t, first.Success)

	confirmed, ok, err := registry.Lookup(ctx, "acme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "acme.com", confirmed)

	conflict := svc.FindCompanyContacts(ctx, Request{Company: "Acme Inc", Domain: "other.com"})
	assert.False(t, conflict.Success)
	assert.Equal(t, types.ErrorKindDomainConflict, conflict.ErrorKind)
	assert.Contains(t, conflict.Message, "acme.com")

	// Without a caller-supplied domain the confirmed one is reused rather than re-guessed.
	reused := svc.FindCompanyContacts(ctx, Request{Company: "ACME", NoCache: true})
	require.True(t, reused.Success)
	assert.Equal(t, "acme.com", reused.Domain)
}

func TestFindCompanyContacts_UnconfiguredDomainIsNotConfirmed(t *testing.T) {
	registry := domains.NewMemoryRegistry()
	svc := newTestService(Options{Registry: registry})

	res := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "nomail.com"})
	assert.Equal(t, types.ErrorKindDomainUnconfigured, res.ErrorKind)

	_, ok, err := registry.Lookup(context.Background(), "acme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindCompanyContacts_EmptyResultIsSuccess(t *testing.T) {
	svc := newTestService(Options{Inboxes: roles.NewInboxTable(nil)})

	res := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com"})
	assert.True(t, res.Success)
	assert.Zero(t, res.Count)
	assert.NotNil(t, res.Contacts)
	assert.Equal(t, MessageNoContacts, res.Message)
	assert.Empty(t, res.ErrorKind)
}

func TestFindCompanyContacts_Truncates(t *testing.T) {
	svc := newTestService(Options{MaxResults: 3})

	res := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com", Role: "recruiter"})
	assert.Equal(t, []string{"careers@acme.com", "recruiting@acme.com", "talent@acme.com"}, addressesOf(res.Contacts))

	res = svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com", Role: "recruiter", MaxResults: 1})
	assert.Equal(t, []string{"careers@acme.com"}, addressesOf(res.Contacts))
}

func TestFindCompanyContacts_CachedSecondCall(t *testing.T) {
	finder := &countingFinder{records: []types.PersonRecord{janeDoe}}
	svc := newTestService(Options{Finder: finder, Cache: NewMemoryCache()})
	req := Request{Company: "Acme", Domain: "acme.com", Role: "recruiter"}

	first := svc.FindCompanyContacts(context.Background(), req)
	second := svc.FindCompanyContacts(context.Background(), req)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, finder.Calls())

	firstJSON, err := json.Marshal(first.Contacts)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Contacts)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))

	// Mutating a returned envelope must not corrupt the cache.
	second.Contacts[0].Address = "changed@acme.com"
	third := svc.FindCompanyContacts(context.Background(), req)
	assert.Equal(t, first.Contacts[0].Address, third.Contacts[0].Address)

	bypass := svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com", Role: "recruiter", NoCache: true})
	assert.False(t, bypass.Cached)
	assert.Equal(t, 2, finder.Calls())
}

func TestFindCompanyContacts_FailuresAreNotCached(t *testing.T) {
	cache := NewMemoryCache()
	svc := newTestService(Options{Cache: cache, Inboxes: roles.NewInboxTable(nil)})

	svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "nomail.com"})
	svc.FindCompanyContacts(context.Background(), Request{Company: "Acme", Domain: "acme.com"})
	assert.Zero(t, cache.Len())
}

func TestFindCompanyContacts_ConcurrentIdenticalRequestsShareWork(t *testing.T) {
	finder := &countingFinder{records: []types.PersonRecord{janeDoe}, delay: 50 * time.Millisecond}
	svc := newTestService(Options{Finder: finder, Cache: NewMemoryCache()})
	req := Request{Company: "Acme", Domain: "acme.com", Role: "recruiter"}

	var wg sync.WaitGroup
	results := make([]*types.ContactResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.FindCompanyContacts(context.Background(), req)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, finder.Calls())
	for _, res := range results {
		require.True(t, res.Success)
		assert.Equal(t, addressesOf(results[0].Contacts), addressesOf(res.Contacts))
	}
}

func TestFindCompanyContacts_CanceledCallerDoesNotPoisonSharedFlight(t *testing.T) {
	svc := newTestService(Options{
		Finder:      people.NopFinder{},
		Cache:       NewMemoryCache(),
		MailChecker: slowMail{delay: 200 * time.Millisecond},
	})
	req := Request{Company: "Acme", Domain: "acme.com", Role: "recruiter"}

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	var wg sync.WaitGroup
	var resA, resB *types.ContactResult
	wg.Add(2)
	go func() {
		defer wg.Done()
		resA = svc.FindCompanyContacts(ctxA, req)
	}()
	go func() {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		resB = svc.FindCompanyContacts(context.Background(), req)
	}()
	time.Sleep(30 * time.Millisecond)
	cancelA()
	wg.Wait()

	assert.False(t, resA.Success)
	assert.Equal(t, types.ErrorKindCanceled, resA.ErrorKind)

	require.True(t, resB.Success, resB.Message)
	assert.Empty(t, resB.ErrorKind)
	assert.Equal(t, 6, resB.Count)
}

func TestFindCompanyContacts_CanceledIsNotUnconfigured(t *testing.T) {
	svc := newTestService(Options{
		Finder:      people.NopFinder{},
		MailChecker: slowMail{delay: time.Second},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res := svc.FindCompanyContacts(ctx, Request{Company: "Acme", Domain: "acme.com"})
	assert.False(t, res.Success)
	assert.Equal(t, types.ErrorKindCanceled, res.ErrorKind)
	assert.Equal(t, MessageCanceled, res.Message)
}
