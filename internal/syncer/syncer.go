// Package syncer orchestrates one sync run: fetch every application roster
// from the source, reconcile each into the destination under bounded
// concurrency, and aggregate the outcome. Per-application failures are
// collected and reported together after every application has settled;
// only credential and enumeration failures abort the run.
package syncer

import (
	"context"
	"fmt"

	"github.com/agentstation/utc"

	"github.com/moneyforward-i/admina-sso-sync/internal/pool"
	"github.com/moneyforward-i/admina-sso-sync/pkg/constants"
	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
	"github.com/moneyforward-i/admina-sso-sync/pkg/plan"
	"github.com/moneyforward-i/admina-sso-sync/pkg/roster"
)

// Source produces application rosters.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]roster.App, []roster.Failure, error)
}

// Destination reconciles one application's roster and reports the plan it
// applied; a nil plan means the application was skipped.
type Destination interface {
	Name() string
	Register(ctx context.Context, app roster.App) (*plan.Plan, error)
}

// AppResult is the outcome for one application.
type AppResult struct {
	App      string
	Users    int
	Existing int
	New      int
	Deleted  int
	Skipped  bool
}

// Result aggregates one run.
type Result struct {
	Source      string
	Destination string
	StartedAt   utc.Time
	FinishedAt  utc.Time
	Apps        []AppResult
	Failures    []roster.Failure
}

// Syncer runs rosters from one source into one destination.
type Syncer struct {
	source      Source
	destination Destination
	concurrency int
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithConcurrency overrides how many applications reconcile in flight.
func WithConcurrency(n int) Option {
	return func(s *Syncer) { s.concurrency = n }
}

// New creates a syncer.
func New(source Source, destination Destination, opts ...Option) *Syncer {
	s := &Syncer{
		source:      source,
		destination: destination,
		concurrency: constants.ConcurrentRequests,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one sync. Every application is attempted; if any failed,
// the aggregate error joins one SyncError per failed application, returned
// only after all applications settle.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	log := logging.FromContext(ctx)
	result := &Result{
		Source:      s.source.Name(),
		Destination: s.destination.Name(),
		StartedAt:   utc.Now(),
	}

	log.Info().
		Str("source", result.Source).
		Str("destination", result.Destination).
		Msg("Starting sync run")

	apps, fetchFailures, err := s.source.Fetch(ctx)
	if err != nil {
		result.FinishedAt = utc.Now()
		return result, err
	}
	result.Failures = append(result.Failures, fetchFailures...)

	outcomes := pool.Run(ctx, apps, s.concurrency,
		func(ctx context.Context, app roster.App) (AppResult, error) {
			applied, err := s.destination.Register(ctx, app)
			if err != nil {
				return AppResult{}, err
			}
			out := AppResult{App: app.DisplayName, Users: len(app.Users)}
			if applied == nil {
				out.Skipped = true
			} else {
				out.Existing = len(applied.Update)
				out.New = len(applied.Create)
				out.Deleted = len(applied.Delete)
			}
			return out, nil
		})

	result.Apps = outcomes.Values
	for _, failure := range outcomes.Failures {
		result.Failures = append(result.Failures, roster.Failure{App: failure.Item.DisplayName, Err: failure.Err})
	}
	result.FinishedAt = utc.Now()

	for _, app := range result.Apps {
		log.Info().
			Str("app", app.App).
			Int("users", app.Users).
			Int("existing", app.Existing).
			Int("new", app.New).
			Int("deleted", app.Deleted).
			Bool("skipped", app.Skipped).
			Msg("Application synced")
	}

	if len(result.Failures) > 0 {
		errs := make([]error, 0, len(result.Failures))
		for _, failure := range result.Failures {
			log.Error().Err(failure.Err).Str("app", failure.App).Msg("Application failed to sync")
			errs = append(errs, &errors.SyncError{App: failure.App, Err: failure.Err})
		}
		return result, fmt.Errorf("%d of %d applications failed to sync: %w",
			len(result.Failures), len(apps)+len(fetchFailures), errors.Join(errs...))
	}

	log.Info().Int("apps", len(result.Apps)).Msg("Sync run completed")
	return result, nil
}
