package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jonathan/contact-finder/internal/config"
	"github.com/jonathan/contact-finder/internal/db"
	"github.com/jonathan/contact-finder/internal/discovery"
	"github.com/jonathan/contact-finder/internal/domains"
	"github.com/jonathan/contact-finder/internal/fetch"
	"github.com/jonathan/contact-finder/internal/logger"
	"github.com/jonathan/contact-finder/internal/people"
	"github.com/jonathan/contact-finder/internal/policy"
	"github.com/jonathan/contact-finder/internal/ratelimit"
)

// runtime holds the process-wide collaborators built from configuration.
type runtime struct {
	cfg     *config.Config
	log     zerolog.Logger
	policy  *policy.Policy
	db      *db.DB
	redis   *redis.Client
	limiter *ratelimit.Limiter
}

func newRuntime(ctx context.Context, path string) (*runtime, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newRuntimeFromConfig(ctx, cfg)
}

func newRuntimeFromConfig(ctx context.Context, cfg *config.Config) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: logger.New(cfg.AppEnv)}

	p, err := loadPolicy(cfg)
	if err != nil {
		return nil, err
	}
	rt.policy = p

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		rt.db = database
	}

	if cfg.RedisAddr != "" {
		rt.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	}

	rt.limiter = ratelimit.NewLimiter(cfg.RateLimit())
	return rt, nil
}

// Close releases connections and background workers.
func (rt *runtime) Close() {
	if rt.limiter != nil {
		rt.limiter.Stop()
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.db != nil {
		rt.db.Close()
	}
}

func loadPolicy(cfg *config.Config) (*policy.Policy, error) {
	if cfg.PolicyFile == "" {
		return policy.Default(), nil
	}
	p, err := policy.Load(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	return p, nil
}

func (rt *runtime) validator() *domains.Validator {
	return domains.NewValidator(rt.policy.GenericDomainRoots)
}

// resolver layers confirmed domains from the database over the policy directory.
func (rt *runtime) resolver(ctx context.Context) *domains.Resolver {
	r := domains.NewResolver(rt.policy.KnownDomains)
	if rt.db == nil {
		return r
	}
	known, err := rt.db.ListKnownDomains(ctx)
	if err != nil {
		rt.log.Warn().Err(err).Msg("failed to load confirmed domains")
		return r
	}
	return r.WithEntries(known)
}

func (rt *runtime) registry() domains.Registry {
	if rt.db != nil {
		return rt.db
	}
	return domains.NewMemoryRegistry()
}

func (rt *runtime) mailChecker() *domains.MXChecker {
	return domains.NewMXChecker(nil, rt.validator(), rt.cfg.DNSTimeout.Std())
}

func (rt *runtime) cache() discovery.Cache {
	if rt.redis != nil {
		return discovery.NewRedisCache(rt.redis, "outreach:")
	}
	return discovery.NewMemoryCache()
}

// finder combines every configured name source. Offline records come first, then
// site-restricted search when credentials are present, then team-page scraping.
func (rt *runtime) finder(ctx context.Context) (*people.MultiFinder, error) {
	var finders []people.Finder

	if rt.cfg.PeopleFile != "" {
		static, err := people.LoadStaticFinder(rt.cfg.PeopleFile)
		if err != nil {
			return nil, err
		}
		finders = append(finders, static)
	}

	if rt.cfg.GoogleAPIKey != "" {
		search, err := people.NewSearchFinder(ctx, rt.cfg.GoogleAPIKey, rt.cfg.GoogleCX, rt.log)
		if err != nil {
			return nil, err
		}
		finders = append(finders, search)
	}

	opts := []people.ScraperOption{
		people.WithDelay(rt.cfg.ScrapeDelay.Std()),
		people.WithMaxPeople(discovery.DefaultMaxPeople),
	}
	if rt.cfg.UseBrowser {
		opts = append(opts, people.WithRenderer(fetch.NewBrowserRenderer(fetch.DefaultBrowserTimeout, rt.log)))
	}
	finders = append(finders, people.NewSiteScraper(rt.log, opts...))

	return people.NewMultiFinder(rt.log, finders...), nil
}

func (rt *runtime) service(ctx context.Context, useCache bool) (*discovery.Service, error) {
	finder, err := rt.finder(ctx)
	if err != nil {
		return nil, err
	}

	opts := discovery.Options{
		Policy:          rt.policy,
		Resolver:        rt.resolver(ctx),
		Validator:       rt.validator(),
		MailChecker:     rt.mailChecker(),
		Registry:        rt.registry(),
		Finder:          finder,
		Limiter:         rt.limiter,
		CacheTTL:        rt.cfg.CacheTTL.Std(),
		SourcingTimeout: rt.cfg.SourcingTimeout.Std(),
		MaxResults:      rt.cfg.MaxResults,
		Logger:          rt.log,
	}
	if useCache {
		opts.Cache = rt.cache()
	}
	return discovery.NewService(opts), nil
}
