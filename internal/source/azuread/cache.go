package azuread

import (
	"context"
	"sync"

	"github.com/moneyforward-i/admina-sso-sync/internal/pool"
	"github.com/moneyforward-i/admina-sso-sync/pkg/constants"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
	"github.com/moneyforward-i/admina-sso-sync/pkg/roster"
)

// Cache memoizes user profiles and flattened group memberships for one run.
// Profiles are treated as immutable for the run's duration: once a key is
// populated it is never re-fetched. Concurrent populations of the same key
// are idempotent, so last write wins under the mutex.
//
// The cache is run-scoped and explicitly passed; there is no ambient state.
type Cache struct {
	mu     sync.RWMutex
	users  map[string]roster.User
	groups map[string][]string
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		users:  make(map[string]roster.User),
		groups: make(map[string][]string),
	}
}

// User looks up a cached profile by principal id.
func (c *Cache) User(principalID string) (roster.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[principalID]
	return u, ok
}

// SetUser memoizes a profile.
func (c *Cache) SetUser(u roster.User) {
	if u.PrincipalID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[u.PrincipalID] = u
}

// GroupMembers looks up the flattened member set of a group.
func (c *Cache) GroupMembers(groupID string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	members, ok := c.groups[groupID]
	return members, ok
}

// SetGroupMembers memoizes a flattened member set.
func (c *Cache) SetGroupMembers(groupID string, members []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[groupID] = members
}

// Len reports cached entry counts, for logging.
func (c *Cache) Len() (users, groups int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users), len(c.groups)
}

// Warm eagerly lists every user and every security-enabled group, expanding
// each group through the resolver. One large up-front listing replaces the
// O(apps x users) profile lookups the per-application traversal would
// otherwise make. Warm failures degrade to lazy fetching rather than
// failing the run.
func (c *Cache) Warm(ctx context.Context, client *Client, resolver *Resolver) {
	log := logging.FromContext(ctx)

	users, err := client.listUsers(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Cache preload of users failed; falling back to per-user fetches")
	} else {
		for _, u := range users {
			c.SetUser(roster.User{Email: u.email(), DisplayName: u.DisplayName, PrincipalID: u.ID})
		}
	}

	groups, err := client.listSecurityGroups(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Cache preload of groups failed; falling back to per-group expansion")
		return
	}

	results := pool.Run(ctx, groups, constants.ConcurrentRequests, func(ctx context.Context, g graphGroup) (struct{}, error) {
		_, err := resolver.ResolveGroup(ctx, g.ID)
		return struct{}{}, err
	})
	for _, failure := range results.Failures {
		log.Warn().Err(failure.Err).
			Str("group_id", failure.Item.ID).
			Str("group", failure.Item.DisplayName).
			Msg("Cache preload of group membership failed")
	}

	cachedUsers, cachedGroups := c.Len()
	log.Info().Int("users", cachedUsers).Int("groups", cachedGroups).Msg("Entity cache warmed")
}
