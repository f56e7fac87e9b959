// Package ssosync syncs SSO application rosters from an identity source
// into the Admina identity-governance platform. The package-level entry
// point wires a source, a destination, and the reconciliation engine from
// environment configuration; options override individual settings.
package ssosync

import (
	"context"
	"fmt"

	"github.com/moneyforward-i/admina-sso-sync/internal/config"
	"github.com/moneyforward-i/admina-sso-sync/internal/syncer"
)

// Engine runs roster syncs.
type Engine interface {
	// Sync executes one run: fetch every application roster from the
	// source and reconcile each into the destination. The result carries
	// per-application counts and failure reasons.
	Sync(ctx context.Context) (*syncer.Result, error)
}

// engine is the internal implementation of the Engine interface.
type engine struct {
	config *options
}

// New creates an Engine with the given options.
func New(opts ...Option) (Engine, error) {
	e := &engine{config: defaultOptions()}
	for _, opt := range opts {
		if err := opt(e.config); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	return e, nil
}

// Sync implements Engine.
func (e *engine) Sync(ctx context.Context) (*syncer.Result, error) {
	cfg := e.config.env
	if cfg == nil {
		config.Init()
		cfg = config.Load()
	}
	e.config.override(cfg)

	source := e.config.source
	if source == nil {
		var err error
		if source, err = syncer.NewSource(e.config.sourceName, cfg); err != nil {
			return nil, err
		}
	}

	destination := e.config.destination
	if destination == nil {
		var err error
		if destination, err = syncer.NewDestination(e.config.destinationName, cfg); err != nil {
			return nil, err
		}
	}

	return syncer.New(source, destination, syncer.WithConcurrency(cfg.Concurrency)).Run(ctx)
}

// Sync is a convenience that builds an Engine and runs one sync.
func Sync(ctx context.Context, opts ...Option) (*syncer.Result, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return e.Sync(ctx)
}
