// Package discovery runs the contact discovery pipeline for a single company.
package discovery

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/contact-finder/internal/contacts"
	"github.com/jonathan/contact-finder/internal/domains"
	"github.com/jonathan/contact-finder/internal/metrics"
	"github.com/jonathan/contact-finder/internal/people"
	"github.com/jonathan/contact-finder/internal/policy"
	"github.com/jonathan/contact-finder/internal/ratelimit"
	"github.com/jonathan/contact-finder/internal/roles"
	"github.com/jonathan/contact-finder/internal/types"
)

// Envelope messages.
const (
	MessageNoContacts         = "No public contacts found for this domain"
	MessageDomainUnconfigured = "Domain invalid or not configured for email"
	MessageCanceled           = "Request canceled before discovery finished"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultMaxResults      = 10
	DefaultSourcingTimeout = 10 * time.Second
	DefaultMaxPeople       = 10
)

// MailChecker reports whether a domain accepts mail. *domains.MXChecker satisfies it.
type MailChecker interface {
	HasMXRecords(ctx context.Context, domain string) bool
}

// Options configures a Service. Nil collaborators fall back to built-in defaults;
// a nil Finder disables name sourcing and a nil Cache disables caching.
type Options struct {
	Policy          *policy.Policy
	Resolver        *domains.Resolver
	Validator       *domains.Validator
	MailChecker     MailChecker
	Registry        domains.Registry
	Inboxes         *roles.InboxTable
	Finder          people.Finder
	Limiter         *ratelimit.Limiter
	Cache           Cache
	CacheTTL        time.Duration
	SourcingTimeout time.Duration
	MaxPeople       int
	MaxResults      int
	Logger          zerolog.Logger
}

// Service composes the resolver, validators, generators, filter and ranker.
type Service struct {
	policy          *policy.Policy
	resolver        *domains.Resolver
	validator       *domains.Validator
	mail            MailChecker
	registry        domains.Registry
	inboxes         *roles.InboxTable
	aggregator      *contacts.Aggregator
	finder          people.Finder
	limiter         *ratelimit.Limiter
	cache           Cache
	cacheTTL        time.Duration
	sourcingTimeout time.Duration
	maxPeople       int
	maxResults      int
	logger          zerolog.Logger
	group           singleflight.Group
}

// NewService creates a Service from opts.
func NewService(opts Options) *Service {
	p := opts.Policy
	if p == nil {
		p = policy.Default()
	}
	validator := opts.Validator
	if validator == nil {
		validator = domains.NewValidator(p.GenericDomainRoots)
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = domains.NewResolver(p.KnownDomains)
	}
	mail := opts.MailChecker
	if mail == nil {
		mail = domains.NewMXChecker(nil, validator, 0)
	}
	registry := opts.Registry
	if registry == nil {
		registry = domains.NewMemoryRegistry()
	}
	inboxes := opts.Inboxes
	if inboxes == nil {
		inboxes = roles.DefaultInboxTable()
	}

	s := &Service{
		policy:          p,
		resolver:        resolver,
		validator:       validator,
		mail:            mail,
		registry:        registry,
		inboxes:         inboxes,
		aggregator:      contacts.NewAggregator(contacts.NewFilter(p, inboxes), inboxes),
		finder:          opts.Finder,
		limiter:         opts.Limiter,
		cache:           opts.Cache,
		cacheTTL:        opts.CacheTTL,
		sourcingTimeout: opts.SourcingTimeout,
		maxPeople:       opts.MaxPeople,
		maxResults:      opts.MaxResults,
		logger:          opts.Logger,
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = DefaultCacheTTL
	}
	if s.sourcingTimeout <= 0 {
		s.sourcingTimeout = DefaultSourcingTimeout
	}
	if s.maxPeople <= 0 {
		s.maxPeople = DefaultMaxPeople
	}
	if s.maxResults <= 0 {
		s.maxResults = DefaultMaxResults
	}
	return s
}

// FindCompanyContacts returns a ranked list of candidate contacts for a company.
// It never returns nil and never panics on bad input: every failure is reported
// through the envelope's Success, Message and ErrorKind fields.
func (s *Service) FindCompanyContacts(ctx context.Context, req Request) *types.ContactResult {
	start := time.Now()
	req = req.Normalize()
	intent := roles.NormalizeRole(req.Role)

	log := s.logger.With().
		Str("request_id", uuid.NewString()).
		Str("company", req.Company).
		Str("intent", string(intent)).
		Logger()

	if err := req.Validate(); err != nil {
		log.Info().Err(err).Msg("request rejected")
		return s.finish(log, start, failure(req, intent, types.ErrorKindInvalidInput, err.Error()), false)
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = s.maxResults
	}

	if req.NoCache || s.cache == nil {
		return s.finish(log, start, s.discover(ctx, log, req, intent, maxResults), false)
	}

	key := CacheKey(req.Company, req.Domain, intent, maxResults)
	if cached, ok := s.lookup(ctx, log, key); ok {
		cached.Cached = true
		return s.finish(log, start, cached, true)
	}

	// The shared computation outlives any single caller; the MX and sourcing
	// timeouts still bound it.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		// A concurrent caller may have stored the result while this one waited.
		if cached, ok, err := s.cache.Get(shared, key); err == nil && ok {
			cached.Cached = true
			return cached, nil
		}
		result := s.discover(shared, log, req, intent, maxResults)
		if result.Success && result.Count > 0 {
			if err := s.cache.Set(shared, key, result, s.cacheTTL); err != nil {
				log.Warn().Err(err).Msg("failed to store result in cache")
			}
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		log.Info().Err(ctx.Err()).Msg("caller gave up waiting for discovery")
		return s.finish(log, start, failure(req, intent, types.ErrorKindCanceled, MessageCanceled), false)
	case r := <-ch:
		result := r.Val.(*types.ContactResult).Clone()
		return s.finish(log, start, result, result.Cached)
	}
}

func (s *Service) lookup(ctx context.Context, log zerolog.Logger, key string) (*types.ContactResult, bool) {
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("cache lookup failed")
		return nil, false
	}
	metrics.IncCacheLookup(ok)
	if !ok {
		return nil, false
	}
	return cached, true
}

func (s *Service) finish(log zerolog.Logger, start time.Time, result *types.ContactResult, cached bool) *types.ContactResult {
	outcome := outcomeOf(result)
	metrics.IncRequest(outcome, cached)
	if !cached {
		metrics.ObserveRequestDuration(outcome, time.Since(start))
		for kind, n := range countByKind(result.Contacts) {
			metrics.AddCandidates(string(kind), n)
		}
	}

	log.Info().
		Str("outcome", outcome).
		Bool("cached", cached).
		Int("count", result.Count).
		Dur("elapsed", time.Since(start)).
		Msg("discovery finished")
	return result
}

// discover runs one uncached pass of the pipeline.
func (s *Service) discover(ctx context.Context, log zerolog.Logger, req Request, intent types.RoleIntent, maxResults int) *types.ContactResult {
	company := domains.CleanCompanyName(req.Company)
	if company == "" {
		return failure(req, intent, types.ErrorKindInvalidInput, "company: must contain at least one letter or digit")
	}

	domain, conflict := s.workingDomain(ctx, log, company, req)
	if conflict != nil {
		log.Warn().Err(conflict).Msg("domain conflict")
		return failure(req, intent, types.ErrorKindDomainConflict, conflict.Error())
	}
	log = log.With().Str("domain", domain).Logger()

	if err := s.validator.Check(domain); err != nil {
		log.Info().Err(err).Msg("domain rejected")
		return failure(req, intent, types.ErrorKindInvalidInput, err.Error())
	}

	hasMX := s.mail.HasMXRecords(ctx, domain)
	if !hasMX && ctx.Err() != nil {
		log.Info().Err(ctx.Err()).Msg("request canceled during mail exchanger lookup")
		return failure(req, intent, types.ErrorKindCanceled, MessageCanceled)
	}
	metrics.IncMXLookup(hasMX)
	if !hasMX {
		log.Info().Msg("domain has no mail exchangers")
		result := failure(req, intent, types.ErrorKindDomainUnconfigured, MessageDomainUnconfigured)
		result.Domain = domain
		return result
	}

	if err := s.registry.Confirm(ctx, company, domain); err != nil {
		var conflict *domains.ConflictError
		if errors.As(err, &conflict) {
			log.Warn().Err(err).Msg("domain conflict on confirm")
			return failure(req, intent, types.ErrorKindDomainConflict, err.Error())
		}
		log.Warn().Err(err).Msg("failed to record confirmed domain")
	}

	roleBased := contacts.RestrictToDomain(s.inboxes.Generate(intent, domain), domain)
	persons := s.sourcePeople(ctx, log, req, company, domain, intent)

	var personBased []types.CandidateContact
	for _, p := range persons {
		personBased = append(personBased, contacts.SynthesizePersonalPatterns(p, domain)...)
	}
	personBased = contacts.RestrictToDomain(personBased, domain)

	log.Debug().
		Int("role_based", len(roleBased)).
		Int("people", len(persons)).
		Int("person_based", len(personBased)).
		Msg("candidates generated")

	agg, err := s.aggregator.Aggregate(roleBased, personBased, intent, maxResults)
	metrics.AddFiltered(len(agg.Rejected))
	for _, r := range agg.Rejected {
		log.Debug().Str("address", r.Address).Str("reason", r.Reason).Msg("candidate filtered")
	}

	result := &types.ContactResult{
		Success:  true,
		Contacts: agg.Contacts,
		Count:    len(agg.Contacts),
		Company:  req.Company,
		Domain:   domain,
		Intent:   intent,
		Sources:  sourcesOf(agg.Contacts, persons),
	}
	if errors.Is(err, contacts.ErrNoContacts) {
		result.Contacts = []types.CandidateContact{}
		result.Count = 0
		result.Message = MessageNoContacts
	}
	return result
}

// workingDomain picks the one domain this request will use. A confirmed domain always
// wins over a guess; a caller-supplied domain that disagrees with it is a conflict.
func (s *Service) workingDomain(ctx context.Context, log zerolog.Logger, company string, req Request) (string, error) {
	requested := domains.NormalizeDomain(req.Domain)

	confirmed, ok, err := s.registry.Lookup(ctx, company)
	if err != nil {
		log.Warn().Err(err).Msg("confirmed domain lookup failed")
		ok = false
	}

	switch {
	case requested != "" && ok && requested != confirmed:
		return "", &domains.ConflictError{Company: company, Confirmed: confirmed, Requested: requested}
	case requested != "":
		return requested, nil
	case ok:
		return confirmed, nil
	default:
		return s.resolver.Resolve(req.Company), nil
	}
}

// sourcePeople asks the name-sourcing collaborator for people listed on the company's
// own pages. Every failure degrades to an empty list.
func (s *Service) sourcePeople(ctx context.Context, log zerolog.Logger, req Request, company, domain string, intent types.RoleIntent) []types.PersonRecord {
	if s.finder == nil {
		return nil
	}
	if s.policy.IsLargeCompany(company, domain) {
		metrics.IncSourcing(metrics.SourcingLargeCompany)
		log.Info().Msg("skipping name sourcing for large company")
		return nil
	}
	if s.limiter != nil {
		if allowed, info := s.limiter.Allow(domain); !allowed {
			metrics.IncSourcing(metrics.SourcingRateLimited)
			log.Warn().Dur("retry_after", info.RetryAfter).Msg("name sourcing rate limited")
			return nil
		}
	}

	sctx, cancel := context.WithTimeout(ctx, s.sourcingTimeout)
	defer cancel()

	records, err := s.finder.FindPublicPeople(sctx, people.Query{
		Company:  req.Company,
		Domain:   domain,
		Intent:   intent,
		Location: req.Location,
	})
	if err == nil && sctx.Err() != nil {
		// Results that arrive after the deadline are discarded.
		err = sctx.Err()
		records = nil
	}
	if err != nil {
		outcome := metrics.SourcingError
		if errors.Is(sctx.Err(), context.DeadlineExceeded) {
			outcome = metrics.SourcingTimeout
		}
		metrics.IncSourcing(outcome)
		log.Warn().Err(err).Str("outcome", outcome).Msg("name sourcing failed")
		return nil
	}
	metrics.IncSourcing(metrics.SourcingOK)

	kept := people.Sanitize(records, domain, s.maxPeople)
	log.Debug().Int("found", len(records)).Int("kept", len(kept)).Msg("name sourcing finished")
	return kept
}

func failure(req Request, intent types.RoleIntent, kind types.ErrorKind, message string) *types.ContactResult {
	return &types.ContactResult{
		Success:   false,
		Contacts:  []types.CandidateContact{},
		Count:     0,
		Message:   message,
		Company:   req.Company,
		Intent:    intent,
		Sources:   []string{},
		ErrorKind: kind,
	}
}

func outcomeOf(result *types.ContactResult) string {
	switch {
	case result.Success && result.Count > 0:
		return metrics.OutcomeSuccess
	case result.Success:
		return metrics.OutcomeEmpty
	case result.ErrorKind == types.ErrorKindDomainUnconfigured:
		return metrics.OutcomeDomainUnconfigured
	case result.ErrorKind == types.ErrorKindDomainConflict:
		return metrics.OutcomeDomainConflict
	case result.ErrorKind == types.ErrorKindCanceled:
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeInvalidInput
	}
}

func countByKind(list []types.CandidateContact) map[types.ContactKind]int {
	counts := make(map[types.ContactKind]int)
	for _, c := range list {
		counts[c.Kind]++
	}
	return counts
}

// sourcesOf lists the strategies that contributed at least one returned contact.
func sourcesOf(list []types.CandidateContact, persons []types.PersonRecord) []string {
	bySource := make(map[string]string, len(persons))
	for _, p := range persons {
		bySource[p.Name] = p.Source
	}

	seen := make(map[string]bool)
	for _, c := range list {
		switch {
		case c.Kind == types.KindRoleBased:
			seen[types.SourceRoleInbox] = true
		case c.IsPersonDerived():
			switch src := bySource[c.SourceName]; src {
			case types.SourceSiteSearch, types.SourceSiteScrape:
				seen[src] = true
			}
		}
	}

	order := map[string]int{types.SourceRoleInbox: 0, types.SourceSiteSearch: 1, types.SourceSiteScrape: 2}
	sources := make([]string, 0, len(seen))
	for src := range seen {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return order[sources[i]] < order[sources[j]] })
	return sources
}
