package admina

import (
	"context"
	"strings"

	"github.com/moneyforward-i/admina-sso-sync/internal/config"
	"github.com/moneyforward-i/admina-sso-sync/pkg/constants"
	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
	"github.com/moneyforward-i/admina-sso-sync/pkg/plan"
	"github.com/moneyforward-i/admina-sso-sync/pkg/roster"
)

// Registrar reconciles application rosters into Admina workspaces. One
// workspace per application, named after the application, under the shared
// SSO service.
type Registrar struct {
	client    *Client
	chunkSize int
	dryRun    bool
}

// RegistrarOption configures a Registrar.
type RegistrarOption func(*Registrar)

// WithChunkSize overrides the bulk-write chunk size.
func WithChunkSize(n int) RegistrarOption {
	return func(r *Registrar) { r.chunkSize = n }
}

// WithDryRun computes and logs plans without writing.
func WithDryRun(enabled bool) RegistrarOption {
	return func(r *Registrar) { r.dryRun = enabled }
}

// NewRegistrar creates a registrar over an existing client.
func NewRegistrar(client *Client, opts ...RegistrarOption) *Registrar {
	r := &Registrar{
		client:    client,
		chunkSize: constants.ChunkSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromConfig creates a registrar from the configured destination settings.
func FromConfig(cfg *config.Config, opts ...RegistrarOption) (*Registrar, error) {
	if err := cfg.ValidateAdmina(); err != nil {
		return nil, err
	}
	base := []RegistrarOption{WithChunkSize(cfg.ChunkSize), WithDryRun(cfg.DryRun)}
	return NewRegistrar(NewClient(cfg.Admina), append(base, opts...)...), nil
}

// Name identifies the destination in logs and dispatch.
func (r *Registrar) Name() string { return "admina" }

// Register reconciles one application's roster into its workspace:
// find-or-create the workspace, list its current accounts, compute the
// plan, apply it in chunks. The applied plan is returned for result
// reporting; a skipped application returns nil. A chunk failure stops the
// remaining chunks but is not retried and nothing is rolled back; the plan
// is idempotent, so a re-run converges.
func (r *Registrar) Register(ctx context.Context, app roster.App) (*plan.Plan, error) {
	workspaceName := strings.TrimSpace(app.DisplayName)
	if workspaceName == "" {
		logging.FromContext(ctx).Error().
			Str("app_id", app.AppID).
			Msg("Workspace name is empty; skipping application")
		return nil, nil
	}

	ctx = logging.WithWorkspace(ctx, workspaceName)
	log := logging.FromContext(ctx)

	serviceID, workspaceID, err := r.resolveWorkspace(ctx, workspaceName)
	if err != nil {
		return nil, err
	}

	accounts, err := r.client.Accounts(ctx, serviceID, workspaceID)
	if err != nil {
		return nil, &errors.DestinationError{Operation: "list accounts", Workspace: workspaceName, Message: err.Error(), Err: err}
	}

	p := plan.Compute(app.Users, accounts)
	log.Info().
		Int("existing", len(p.Update)).
		Int("new", len(p.Create)).
		Int("delete", len(p.Delete)).
		Msg("Computed reconciliation plan")

	if r.dryRun {
		log.Info().Str("plan", p.Summary()).Msg("Dry run; skipping account writes")
		return p, nil
	}

	for _, chunk := range p.Chunks(r.chunkSize) {
		if err := r.client.ApplyChunk(ctx, workspaceID, chunk); err != nil {
			werr := &errors.WriteChunkError{
				Workspace: workspaceName,
				Class:     string(chunk.Class),
				Size:      chunk.Size(),
				Err:       err,
			}
			log.Error().Err(werr).Msg("Bulk account write failed; aborting remaining chunks")
			return nil, werr
		}
	}

	log.Info().Str("plan", p.Summary()).Msg("Workspace reconciled")
	return p, nil
}

// resolveWorkspace finds the application's workspace under the SSO service
// by exact name, creating it if absent.
func (r *Registrar) resolveWorkspace(ctx context.Context, workspaceName string) (serviceID, workspaceID int, err error) {
	log := logging.FromContext(ctx)

	svc, err := r.client.FindService(ctx, constants.SSOServiceName)
	if err != nil {
		return 0, 0, &errors.DestinationError{Operation: "find service", Workspace: workspaceName, Message: err.Error(), Err: err}
	}

	if svc != nil {
		for _, ws := range svc.Workspaces {
			if ws.WorkspaceName == workspaceName {
				log.Info().
					Str("service", svc.Name).
					Int("service_id", svc.ID).
					Int("workspace_id", ws.ID).
					Msg("Workspace already exists")
				return svc.ID, ws.ID, nil
			}
		}
	}

	log.Info().Msg("Creating manual-import workspace")
	created, err := r.client.CreateWorkspace(ctx, constants.SSOServiceName, workspaceName)
	if err != nil {
		return 0, 0, &errors.DestinationError{Operation: "create workspace", Workspace: workspaceName, Message: err.Error(), Err: err}
	}
	if created.Service.ID <= 0 {
		return 0, 0, &errors.DestinationError{
			Operation: "create workspace",
			Workspace: workspaceName,
			Message:   "service id missing from creation response",
		}
	}

	log.Info().
		Str("service", created.Service.Name).
		Int("service_id", created.Service.ID).
		Int("workspace_id", created.Workspace.ID).
		Msg("Workspace created")
	return created.Service.ID, created.Workspace.ID, nil
}
