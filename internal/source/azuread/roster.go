package azuread

import (
	"context"

	"github.com/moneyforward-i/admina-sso-sync/internal/pool"
	"github.com/moneyforward-i/admina-sso-sync/pkg/constants"
	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
	"github.com/moneyforward-i/admina-sso-sync/pkg/roster"
)

// RosterBuilder resolves one application's role assignments into its
// deduplicated roster of users.
type RosterBuilder struct {
	client   *Client
	cache    *Cache
	resolver *Resolver
}

// NewRosterBuilder creates a roster builder over the shared cache.
func NewRosterBuilder(client *Client, cache *Cache, resolver *Resolver) *RosterBuilder {
	return &RosterBuilder{client: client, cache: cache, resolver: resolver}
}

// Build fetches the application's role assignments, expands group
// assignments into user principals, resolves every unique principal to a
// profile, and returns the deduplicated roster. Assignments may reference
// users and groups mixed; both paths converge on principal ids before
// profile resolution.
func (b *RosterBuilder) Build(ctx context.Context, app roster.App) ([]roster.User, error) {
	ctx = logging.WithApp(ctx, app.DisplayName)
	log := logging.FromContext(ctx)

	assignments, err := b.client.listRoleAssignments(ctx, app.PrincipalID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var principalIDs []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		principalIDs = append(principalIDs, id)
	}

	for _, assignment := range assignments {
		switch assignment.PrincipalType {
		case principalTypeUser:
			add(assignment.PrincipalID)
		case principalTypeGroup:
			if assignment.PrincipalID == "" {
				continue
			}
			log.Debug().
				Str("group", assignment.PrincipalDisplayName).
				Str("group_id", assignment.PrincipalID).
				Msg("Expanding group assignment")
			members, err := b.resolver.ResolveGroup(ctx, assignment.PrincipalID)
			if err != nil {
				return nil, err
			}
			for _, id := range members {
				add(id)
			}
		default:
			log.Debug().
				Str("principal_type", assignment.PrincipalType).
				Msg("Skipping unsupported assignment principal type")
		}
	}

	results := pool.Run(ctx, principalIDs, constants.ConcurrentRequests, b.profile)
	if len(results.Failures) > 0 {
		first := results.Failures[0]
		return nil, &errors.ResolutionError{Kind: "user", ID: first.Item, Err: first.Err}
	}

	users := make([]roster.User, 0, len(results.Values))
	for _, user := range results.Values {
		if user.Email == "" {
			log.Warn().
				Str("principal_id", user.PrincipalID).
				Str("display_name", user.DisplayName).
				Msg("User has no resolvable email; skipping")
			continue
		}
		users = append(users, user)
	}

	users = roster.Dedupe(users)
	log.Info().Int("users", len(users)).Msg("Built application roster")
	return users, nil
}

// profile resolves one principal id to a full profile, through the cache.
// A miss falls back to a live fetch, which is memoized for subsequent
// lookups in the same run.
func (b *RosterBuilder) profile(ctx context.Context, principalID string) (roster.User, error) {
	if user, ok := b.cache.User(principalID); ok {
		return user, nil
	}
	fetched, err := b.client.getUser(ctx, principalID)
	if err != nil {
		return roster.User{}, err
	}
	user := roster.User{Email: fetched.email(), DisplayName: fetched.DisplayName, PrincipalID: fetched.ID}
	b.cache.SetUser(user)
	return user, nil
}
