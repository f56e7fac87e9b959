package records

import (
	"context"

	"github.com/moneyforward-i/admina-sso-sync/internal/config"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
	"github.com/moneyforward-i/admina-sso-sync/pkg/roster"
)

// Source fetches one application's roster from the record store. The record
// application itself is the application; its records are the users.
type Source struct {
	client  *Client
	mapping FieldMapping
}

// NewSource creates a source over an existing client.
func NewSource(client *Client, mapping FieldMapping) *Source {
	return &Source{client: client, mapping: mapping}
}

// FromConfig creates a source from the configured record-store settings.
func FromConfig(cfg *config.Config) (*Source, error) {
	if err := cfg.ValidateRecords(); err != nil {
		return nil, err
	}
	mapping, err := ParseFieldMapping(cfg.Records.FieldMapping)
	if err != nil {
		return nil, err
	}
	return NewSource(NewClient(cfg.Records), mapping), nil
}

// Name identifies the source in logs and dispatch.
func (s *Source) Name() string { return "records" }

// Fetch reads the record application and transforms its records into a
// roster through the field mapping. Records without a value in the email
// field are skipped with a warning.
func (s *Source) Fetch(ctx context.Context) ([]roster.App, []roster.Failure, error) {
	ctx = logging.WithSource(ctx, s.Name())
	log := logging.FromContext(ctx)

	meta, err := s.client.app(ctx)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("app", meta.Name).Str("code", meta.Code).Msg("Fetching record application roster")

	recs, err := s.client.records(ctx)
	if err != nil {
		return nil, nil, err
	}

	users := make([]roster.User, 0, len(recs))
	for _, rec := range recs {
		email := rec[s.mapping.Email].text()
		if email == "" {
			log.Warn().Str("record_id", rec.id()).Msg("Skipping record with missing email")
			continue
		}
		users = append(users, roster.User{
			Email:       email,
			DisplayName: rec[s.mapping.DisplayName].text(),
			PrincipalID: rec.id(),
		})
	}

	app := roster.App{
		AppID:       meta.AppID,
		DisplayName: meta.Name,
		Users:       roster.Dedupe(users),
	}
	log.Info().Str("app", app.DisplayName).Int("users", len(app.Users)).Msg("Built record application roster")
	return []roster.App{app}, nil, nil
}
