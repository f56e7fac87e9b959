package records

import (
	"context"
	"fmt"
	"net/url"

	"github.com/moneyforward-i/admina-sso-sync/internal/config"
	"github.com/moneyforward-i/admina-sso-sync/internal/transport"
)

const (
	// pageLimit is the API's maximum records per page.
	pageLimit = 100
	// maxOffset is the API's pagination ceiling; offsets at or beyond it
	// are rejected server-side, so the loop stops before reaching it.
	maxOffset = 10000

	tokenHeader = "X-Cybozu-API-Token"
)

// appMetadata is the record application's own metadata, used as the
// synthesized application identity.
type appMetadata struct {
	AppID string `json:"appId"`
	Code  string `json:"code"`
	Name  string `json:"name"`
}

// fieldValue is one field of a record. Values are free-form; only string
// values participate in the roster.
type fieldValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func (v fieldValue) text() string {
	s, _ := v.Value.(string)
	return s
}

// record maps field codes to values. The store's own $id field carries the
// record identity.
type record map[string]fieldValue

func (r record) id() string {
	return r["$id"].text()
}

type recordsPage struct {
	Records []record `json:"records"`
}

// Client reads one record application from the store.
type Client struct {
	transport *transport.Client
	baseURL   string
	appID     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different endpoint (tests).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithTransport replaces the transport client (tests).
func WithTransport(t *transport.Client) ClientOption {
	return func(c *Client) { c.transport = t }
}

// NewClient creates a record-store client for the configured subdomain and
// application.
func NewClient(cfg config.Records, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: fmt.Sprintf("https://%s.cybozu.com/k/v1", cfg.SubDomain),
		appID:   cfg.AppID,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = transport.New(&transport.HeaderAuth{Header: tokenHeader, Key: cfg.APIKey})
	}
	return c
}

// app fetches the record application's metadata.
func (c *Client) app(ctx context.Context) (appMetadata, error) {
	var meta appMetadata
	uri := c.baseURL + "/app.json?id=" + url.QueryEscape(c.appID)
	resp, err := c.transport.Get(ctx, uri)
	if err != nil {
		return meta, err
	}
	if err := transport.DecodeResponse(resp, "app.json", &meta); err != nil {
		return meta, err
	}
	return meta, nil
}

// records pages through every record of the application. The API caps both
// the page size and the reachable offset; a short page or the offset
// ceiling ends the loop.
func (c *Client) records(ctx context.Context) ([]record, error) {
	var all []record
	for offset := 0; ; offset += pageLimit {
		uri := fmt.Sprintf("%s/records.json?app=%s&offset=%d&limit=%d",
			c.baseURL, url.QueryEscape(c.appID), offset, pageLimit)
		resp, err := c.transport.Get(ctx, uri)
		if err != nil {
			return nil, err
		}
		var pg recordsPage
		if err := transport.DecodeResponse(resp, "records.json", &pg); err != nil {
			return nil, err
		}
		all = append(all, pg.Records...)
		if len(pg.Records) < pageLimit || offset >= maxOffset-pageLimit {
			break
		}
	}
	return all, nil
}
