// Package admina writes application rosters into the Admina
// identity-governance platform: one custom workspace per application under
// the shared Single Sign-On service, reconciled with bounded-size bulk
// account writes.
package admina

import (
	"context"
	"fmt"
	"net/url"

	"github.com/moneyforward-i/admina-sso-sync/internal/config"
	"github.com/moneyforward-i/admina-sso-sync/internal/transport"
	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
	"github.com/moneyforward-i/admina-sso-sync/pkg/plan"
)

// workspace is one custom workspace under a service.
type workspace struct {
	ID            int    `json:"id"`
	WorkspaceName string `json:"workspaceName"`
}

// service is one governed service with its workspaces.
type service struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Workspaces []workspace `json:"workspaces"`
}

type serviceList struct {
	Items []service `json:"items"`
}

type accountList struct {
	Items []plan.Account `json:"items"`
}

// workspaceCreation is the creation response: the workspace plus the
// service it was attached to (created on first use).
type workspaceCreation struct {
	Workspace workspace `json:"workspace"`
	Service   service   `json:"service"`
}

// accountWrite is one entry of a bulk account write. UserName mirrors
// DisplayName on create and update; deletes carry no user name.
type accountWrite struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	UserName    string `json:"userName,omitempty"`
}

// Client is the Admina API client, scoped to one organization.
type Client struct {
	transport *transport.Client
	endpoint  string
	orgID     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint points the client at a different API endpoint (tests).
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithTransport replaces the transport client (tests).
func WithTransport(t *transport.Client) ClientOption {
	return func(c *Client) { c.transport = t }
}

// NewClient creates an Admina client for the configured organization.
func NewClient(cfg config.Admina, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: cfg.Endpoint,
		orgID:    cfg.OrgID,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = transport.New(&transport.StaticBearerAuth{Key: cfg.APIKey})
	}
	return c
}

func (c *Client) orgURL(format string, args ...any) string {
	return fmt.Sprintf("%s/api/v1/organizations/%s", c.endpoint, c.orgID) + fmt.Sprintf(format, args...)
}

// FindService looks a service up by keyword. Returns nil when the
// organization has none matching; the first workspace creation will also
// create the service.
func (c *Client) FindService(ctx context.Context, keyword string) (*service, error) {
	uri := c.orgURL("/services?keyword=%s", url.QueryEscape(keyword))
	resp, err := c.transport.Get(ctx, uri)
	if err != nil {
		return nil, err
	}
	var list serviceList
	if err := transport.DecodeResponse(resp, "services", &list); err != nil {
		return nil, err
	}
	if len(list.Items) == 0 {
		return nil, nil
	}
	return &list.Items[0], nil
}

// CreateWorkspace creates a manual-import custom workspace under the named
// service, creating the service itself if this is its first workspace.
func (c *Client) CreateWorkspace(ctx context.Context, serviceName, workspaceName string) (workspaceCreation, error) {
	var created workspaceCreation
	payload := map[string]string{
		"customWorkspaceType": "manual_import",
		"serviceName":         serviceName,
		"workspaceName":       workspaceName,
	}
	resp, err := c.transport.Post(ctx, c.orgURL("/workspaces/custom"), payload)
	if err != nil {
		return created, err
	}
	if err := transport.DecodeResponse(resp, "workspaces/custom", &created); err != nil {
		return created, err
	}
	return created, nil
}

// Accounts lists the accounts a workspace currently holds.
func (c *Client) Accounts(ctx context.Context, serviceID, workspaceID int) ([]plan.Account, error) {
	uri := c.orgURL("/services/%d/accounts?workspaceId=%d", serviceID, workspaceID)
	resp, err := c.transport.Get(ctx, uri)
	if err != nil {
		return nil, err
	}
	var list accountList
	if err := transport.DecodeResponse(resp, "accounts", &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// ApplyChunk posts one bulk account write. The chunk's class selects the
// request key: create, update, or delete.
func (c *Client) ApplyChunk(ctx context.Context, workspaceID int, chunk plan.Chunk) error {
	writes := make([]accountWrite, 0, chunk.Size())
	switch chunk.Class {
	case plan.ClassCreate, plan.ClassUpdate:
		for _, user := range chunk.Users {
			writes = append(writes, accountWrite{
				Email:       user.Email,
				DisplayName: user.DisplayName,
				UserName:    user.DisplayName,
			})
		}
	case plan.ClassDelete:
		for _, account := range chunk.Accounts {
			writes = append(writes, accountWrite{
				Email:       account.Email,
				DisplayName: account.DisplayName,
			})
		}
	default:
		return &errors.ValidationError{Field: "class", Message: fmt.Sprintf("unknown chunk class %q", chunk.Class)}
	}

	payload := map[string][]accountWrite{string(chunk.Class): writes}
	uri := c.orgURL("/workspaces/%d/accounts/custom", workspaceID)
	resp, err := c.transport.Post(ctx, uri, payload)
	if err != nil {
		return err
	}
	return transport.DecodeResponse(resp, "accounts/custom", nil)
}
