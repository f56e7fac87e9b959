package azuread

import (
	"context"

	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
	"github.com/moneyforward-i/admina-sso-sync/pkg/roster"
)

// Resolver expands a group into its flat set of user principal ids,
// following nested groups. Expansion runs over an explicit work stack with
// a visited set, so membership cycles terminate: a group re-encountered
// during its own expansion contributes nothing further.
type Resolver struct {
	client *Client
	cache  *Cache
}

// NewResolver creates a resolver that memoizes through the given cache.
func NewResolver(client *Client, cache *Cache) *Resolver {
	return &Resolver{client: client, cache: cache}
}

// ResolveGroup returns the flattened user principal ids of a group. The
// result is memoized; a group already resolved in this run costs a map
// lookup. User profiles seen during expansion are memoized as a side
// effect, since member listings carry full profiles.
func (r *Resolver) ResolveGroup(ctx context.Context, groupID string) ([]string, error) {
	if members, ok := r.cache.GroupMembers(groupID); ok {
		return members, nil
	}

	log := logging.FromContext(ctx)

	seen := make(map[string]struct{})
	visited := map[string]struct{}{groupID: {}}
	stack := []string{groupID}
	var flat []string

	for len(stack) > 0 {
		gid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// A nested group resolved earlier in the run contributes its
		// memoized set without another traversal.
		if gid != groupID {
			if members, ok := r.cache.GroupMembers(gid); ok {
				for _, id := range members {
					if _, dup := seen[id]; !dup {
						seen[id] = struct{}{}
						flat = append(flat, id)
					}
				}
				continue
			}
		}

		members, err := r.client.listGroupMembers(ctx, gid)
		if err != nil {
			return nil, &errors.ResolutionError{Kind: "group", ID: gid, Err: err}
		}

		for _, member := range members {
			switch member.ODataType {
			case odataTypeUser:
				if member.ID == "" {
					continue
				}
				if _, dup := seen[member.ID]; !dup {
					seen[member.ID] = struct{}{}
					flat = append(flat, member.ID)
				}
				u := member.user()
				r.cache.SetUser(roster.User{Email: u.email(), DisplayName: u.DisplayName, PrincipalID: u.ID})
			case odataTypeGroup:
				if member.ID == "" {
					continue
				}
				if _, ok := visited[member.ID]; ok {
					log.Warn().
						Str("group_id", member.ID).
						Str("via", gid).
						Msg("Group membership cycle detected; skipping re-expansion")
					continue
				}
				visited[member.ID] = struct{}{}
				stack = append(stack, member.ID)
			default:
				log.Debug().
					Str("type", member.ODataType).
					Str("member_id", member.ID).
					Msg("Skipping unsupported group member type")
			}
		}
	}

	r.cache.SetGroupMembers(groupID, flat)
	return flat, nil
}
