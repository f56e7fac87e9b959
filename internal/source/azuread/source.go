package azuread

import (
	"context"

	"github.com/moneyforward-i/admina-sso-sync/internal/config"
	"github.com/moneyforward-i/admina-sso-sync/internal/pool"
	"github.com/moneyforward-i/admina-sso-sync/pkg/constants"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
	"github.com/moneyforward-i/admina-sso-sync/pkg/roster"
)

// Options controls which enumerated applications make it into the fetch
// result and whether the entity cache is preloaded.
type Options struct {
	RegisterZeroUserApp bool
	RegisterDisabledApp bool
	PreloadCache        bool
	TargetServices      []string
	Concurrency         int
}

// Source fetches SSO applications and their rosters from Entra ID. All
// per-run state (entity cache, group memo) lives on the Source; a new
// Source starts cold.
type Source struct {
	client   *Client
	cache    *Cache
	resolver *Resolver
	builder  *RosterBuilder
	opts     Options
}

// NewSource creates a source over an existing Graph client.
func NewSource(client *Client, opts Options) *Source {
	if opts.Concurrency < 1 {
		opts.Concurrency = constants.ConcurrentRequests
	}
	cache := NewCache()
	resolver := NewResolver(client, cache)
	return &Source{
		client:   client,
		cache:    cache,
		resolver: resolver,
		builder:  NewRosterBuilder(client, cache, resolver),
		opts:     opts,
	}
}

// FromConfig creates a source authenticated with the configured
// client-credentials grant.
func FromConfig(cfg *config.Config) (*Source, error) {
	if err := cfg.ValidateAzureAD(); err != nil {
		return nil, err
	}
	tokens, err := NewClientSecretTokenManager(cfg.AzureAD)
	if err != nil {
		return nil, err
	}
	return NewSource(NewClient(tokens), Options{
		RegisterZeroUserApp: cfg.RegisterZeroUserApp,
		RegisterDisabledApp: cfg.RegisterDisabledApp,
		PreloadCache:        cfg.PreloadCache,
		TargetServices:      cfg.TargetServices,
		Concurrency:         cfg.Concurrency,
	}), nil
}

// Name identifies the source in logs and dispatch.
func (s *Source) Name() string { return "azuread" }

// Fetch enumerates SSO applications and builds each one's roster with
// bounded concurrency. A failed roster build is reported as a per-app
// failure; the returned error is reserved for failures that invalidate the
// whole fetch (credential refresh, application enumeration).
func (s *Source) Fetch(ctx context.Context) ([]roster.App, []roster.Failure, error) {
	ctx = logging.WithSource(ctx, s.Name())
	log := logging.FromContext(ctx)

	if s.opts.PreloadCache {
		s.cache.Warm(ctx, s.client, s.resolver)
	}

	apps, err := s.client.Applications(ctx, s.opts.TargetServices)
	if err != nil {
		return nil, nil, err
	}

	results := pool.Run(ctx, apps, s.opts.Concurrency,
		func(ctx context.Context, app roster.App) (roster.App, error) {
			users, err := s.builder.Build(ctx, app)
			if err != nil {
				return roster.App{}, err
			}
			app.Users = users
			return app, nil
		})

	var failures []roster.Failure
	for _, failure := range results.Failures {
		log.Error().Err(failure.Err).
			Str("app", failure.Item.DisplayName).
			Msg("Failed to build application roster; skipping application")
		failures = append(failures, roster.Failure{App: failure.Item.DisplayName, Err: failure.Err})
	}

	kept := make([]roster.App, 0, len(results.Values))
	for _, app := range results.Values {
		if len(app.Users) == 0 && !s.opts.RegisterZeroUserApp {
			log.Info().Str("app", app.DisplayName).Msg("Skipping application with zero users")
			continue
		}
		if app.HasTag(constants.HiddenAppTag) && !s.opts.RegisterDisabledApp {
			log.Info().Str("app", app.DisplayName).Msg("Skipping hidden application")
			continue
		}
		kept = append(kept, app)
	}

	return kept, failures, nil
}
