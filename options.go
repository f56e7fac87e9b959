package ssosync

import (
	"github.com/moneyforward-i/admina-sso-sync/internal/config"
	"github.com/moneyforward-i/admina-sso-sync/internal/syncer"
	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
)

// Option is a function that configures an Engine.
type Option func(*options) error

// options holds the engine configuration. Override fields are pointers so
// that only explicitly set options shadow the environment configuration.
type options struct {
	sourceName      string
	destinationName string

	env         *config.Config
	source      syncer.Source
	destination syncer.Destination

	dryRun         *bool
	preloadCache   *bool
	targetServices []string
	concurrency    *int
	chunkSize      *int
}

func defaultOptions() *options {
	return &options{
		sourceName:      syncer.SourceAzureAD,
		destinationName: syncer.DestinationAdmina,
	}
}

// override applies the explicitly set options onto a loaded configuration.
func (o *options) override(cfg *config.Config) {
	if o.dryRun != nil {
		cfg.DryRun = *o.dryRun
	}
	if o.preloadCache != nil {
		cfg.PreloadCache = *o.preloadCache
	}
	if o.targetServices != nil {
		cfg.TargetServices = o.targetServices
	}
	if o.concurrency != nil {
		cfg.Concurrency = *o.concurrency
	}
	if o.chunkSize != nil {
		cfg.ChunkSize = *o.chunkSize
	}
}

// WithSourceName selects the source to sync from (azuread, records).
func WithSourceName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return &errors.ValidationError{Field: "source", Message: "source name must not be empty"}
		}
		o.sourceName = name
		return nil
	}
}

// WithDestinationName selects the destination to sync into (admina).
func WithDestinationName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return &errors.ValidationError{Field: "destination", Message: "destination name must not be empty"}
		}
		o.destinationName = name
		return nil
	}
}

// WithConfig supplies a pre-loaded configuration instead of reading the
// environment.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		o.env = cfg
		return nil
	}
}

// WithSource supplies a pre-built source, bypassing dispatch.
func WithSource(source syncer.Source) Option {
	return func(o *options) error {
		o.source = source
		return nil
	}
}

// WithDestination supplies a pre-built destination, bypassing dispatch.
func WithDestination(destination syncer.Destination) Option {
	return func(o *options) error {
		o.destination = destination
		return nil
	}
}

// WithDryRun computes and logs reconciliation plans without writing.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = &enabled
		return nil
	}
}

// WithPreloadCache configures whether the entity cache is warmed up front.
func WithPreloadCache(enabled bool) Option {
	return func(o *options) error {
		o.preloadCache = &enabled
		return nil
	}
}

// WithTargetServices restricts the sync to the named applications.
func WithTargetServices(names ...string) Option {
	return func(o *options) error {
		o.targetServices = names
		return nil
	}
}

// WithConcurrency overrides the per-batch concurrency ceiling.
func WithConcurrency(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{Field: "concurrency", Message: "concurrency must be at least 1"}
		}
		o.concurrency = &n
		return nil
	}
}

// WithChunkSize overrides the bulk-write chunk size.
func WithChunkSize(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{Field: "chunk_size", Message: "chunk size must be at least 1"}
		}
		o.chunkSize = &n
		return nil
	}
}
