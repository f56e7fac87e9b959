package azuread

import (
	"context"
	"strings"

	"github.com/moneyforward-i/admina-sso-sync/internal/pool"
	"github.com/moneyforward-i/admina-sso-sync/pkg/constants"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
	"github.com/moneyforward-i/admina-sso-sync/pkg/roster"
)

// Applications enumerates SSO applications: the app registration listing,
// joined per application with its service principal (id, tags, canonical
// URL) under a fixed concurrency ceiling. Applications without a resolvable
// service principal or without an SSO tag are excluded, with a warning for
// the former.
func (c *Client) Applications(ctx context.Context, displayNames []string) ([]roster.App, error) {
	log := logging.FromContext(ctx)

	registrations, err := c.listApplications(ctx, displayNames)
	if err != nil {
		return nil, err
	}

	results := pool.Run(ctx, registrations, constants.ConcurrentRequests,
		func(ctx context.Context, app application) (roster.App, error) {
			sp, err := c.servicePrincipalForApp(ctx, app.AppID)
			if err != nil {
				return roster.App{}, err
			}
			out := roster.App{
				AppID:          app.AppID,
				DisplayName:    app.DisplayName,
				SignInAudience: app.SignInAudience,
				IdentifierURIs: app.IdentifierURIs,
			}
			if sp != nil {
				out.PrincipalID = sp.ID
				out.Tags = sp.Tags
				out.ServiceURL = sp.serviceURL()
			}
			return out, nil
		})

	// A failed service-principal lookup fails the listing: the enumeration
	// would silently under-report otherwise.
	if len(results.Failures) > 0 {
		return nil, results.Failures[0].Err
	}

	apps := make([]roster.App, 0, len(results.Values))
	for _, app := range results.Values {
		if app.PrincipalID == "" {
			log.Warn().
				Str("app", app.DisplayName).
				Str("app_id", app.AppID).
				Msg("No service principal found; skipping application")
			continue
		}
		if !isSSOApp(app.Tags) {
			continue
		}
		apps = append(apps, app)
	}

	log.Info().Int("count", len(apps)).Msg("Detected SSO applications")
	return apps, nil
}

// isSSOApp reports whether any service-principal tag marks the application
// as an SSO application. Gallery application tags carry a variant suffix and
// match by prefix.
func isSSOApp(tags []string) bool {
	for _, tag := range tags {
		for _, want := range constants.SSOAppTags {
			if tag == want {
				return true
			}
			if strings.HasPrefix(want, "WindowsAzureActiveDirectoryGalleryApplication") &&
				strings.HasPrefix(tag, want) {
				return true
			}
		}
	}
	return false
}
