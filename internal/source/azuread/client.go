// Package azuread walks the Microsoft Entra ID directory graph: SSO
// applications, their service principals and role assignments, and the users
// and (recursively nested) groups assigned to them. All listings are
// cursor-paginated and fetched under a refreshing bearer credential.
package azuread

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/moneyforward-i/admina-sso-sync/internal/transport"
	"github.com/moneyforward-i/admina-sso-sync/pkg/constants"
	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
)

// Client is a minimal Graph API client covering the listings the sync
// needs. It holds no per-traversal token: every page fetch re-acquires a
// current token through the manager, because deep pagination can outlive a
// token's validity.
type Client struct {
	transport *transport.Client
	baseURL   string
	pageSize  int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different Graph endpoint (tests).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithPageSize overrides the page size requested from listings.
func WithPageSize(n int) ClientOption {
	return func(c *Client) { c.pageSize = n }
}

// WithTransport replaces the transport client (tests).
func WithTransport(t *transport.Client) ClientOption {
	return func(c *Client) { c.transport = t }
}

// NewClient creates a Graph client whose requests authenticate through the
// given token manager.
func NewClient(tokens *TokenManager, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  constants.GraphEndpoint,
		pageSize: constants.MaxItemsPerPage,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = transport.New(
			&transport.BearerAuth{Token: tokens.Token},
			transport.WithRateLimit(constants.GraphRequestsPerSecond),
		)
	}
	return c
}

// list follows the pagination cursor of a Graph listing until exhausted and
// returns every item. The page size is requested explicitly; the server may
// return fewer per page. Any page failure surfaces immediately as a
// FetchError for the endpoint.
func list[T any](ctx context.Context, c *Client, endpoint string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("$top", strconv.Itoa(c.pageSize))
	uri := c.baseURL + "/" + endpoint + "?" + query.Encode()

	var items []T
	for uri != "" {
		resp, err := c.transport.Get(ctx, uri)
		if err != nil {
			return nil, errors.WrapFetch(endpoint, err)
		}
		var pg page[T]
		if err := transport.DecodeResponse(resp, endpoint, &pg); err != nil {
			return nil, errors.WrapFetch(endpoint, err)
		}
		items = append(items, pg.Value...)
		uri = pg.NextLink
	}
	return items, nil
}

// get fetches a single object.
func get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	resp, err := c.transport.Get(ctx, c.baseURL+"/"+endpoint)
	if err != nil {
		return out, errors.WrapFetch(endpoint, err)
	}
	if err := transport.DecodeResponse(resp, endpoint, &out); err != nil {
		return out, errors.WrapFetch(endpoint, err)
	}
	return out, nil
}

// listApplications lists app registrations, optionally filtered to exact
// display names.
func (c *Client) listApplications(ctx context.Context, displayNames []string) ([]application, error) {
	query := url.Values{}
	if len(displayNames) > 0 {
		filter := ""
		for i, name := range displayNames {
			if i > 0 {
				filter += " or "
			}
			filter += fmt.Sprintf("(displayName eq '%s')", escapeODataLiteral(name))
		}
		query.Set("$filter", filter)
	}
	return list[application](ctx, c, "applications", query)
}

// servicePrincipalForApp resolves the service principal registered for an
// application id. Returns nil when the directory has none.
func (c *Client) servicePrincipalForApp(ctx context.Context, appID string) (*servicePrincipal, error) {
	query := url.Values{}
	query.Set("$filter", fmt.Sprintf("appId eq '%s'", escapeODataLiteral(appID)))
	principals, err := list[servicePrincipal](ctx, c, "servicePrincipals", query)
	if err != nil {
		return nil, err
	}
	if len(principals) == 0 {
		return nil, nil
	}
	return &principals[0], nil
}

// listRoleAssignments lists the app role assignments granted on a service
// principal: the users and groups with access to the application.
func (c *Client) listRoleAssignments(ctx context.Context, servicePrincipalID string) ([]appRoleAssignment, error) {
	endpoint := "servicePrincipals/" + servicePrincipalID + "/appRoleAssignedTo"
	return list[appRoleAssignment](ctx, c, endpoint, nil)
}

// listGroupMembers lists the direct members of a group, users and nested
// groups mixed.
func (c *Client) listGroupMembers(ctx context.Context, groupID string) ([]directoryObject, error) {
	return list[directoryObject](ctx, c, "groups/"+groupID+"/members", nil)
}

// listUsers lists every user in the directory.
func (c *Client) listUsers(ctx context.Context) ([]graphUser, error) {
	return list[graphUser](ctx, c, "users", nil)
}

// listSecurityGroups lists every security-enabled group.
func (c *Client) listSecurityGroups(ctx context.Context) ([]graphGroup, error) {
	query := url.Values{}
	query.Set("$filter", "securityEnabled eq true")
	return list[graphGroup](ctx, c, "groups", query)
}

// getUser fetches one user's profile.
func (c *Client) getUser(ctx context.Context, principalID string) (graphUser, error) {
	return get[graphUser](ctx, c, "users/"+principalID)
}

// escapeODataLiteral doubles single quotes per the OData string literal
// rules, so display names containing quotes cannot break the filter.
func escapeODataLiteral(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\'' {
			out = append(out, '\'')
		}
		out = append(out, r)
	}
	return string(out)
}
