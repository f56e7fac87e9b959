package transport

import (
	"context"
	"net/http"
)

// Authenticator applies authentication to HTTP requests. Apply runs before
// every request; an error aborts the request so that credential failures
// surface instead of producing an unauthenticated call.
type Authenticator interface {
	Apply(req *http.Request) error
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) error {
	return nil
}

// BearerAuth implements Bearer token authentication. Token is called per
// request so that long traversals always send a fresh credential.
type BearerAuth struct {
	Token func(ctx context.Context) (string, error)
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) error {
	token, err := a.Token(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// StaticBearerAuth implements Bearer token authentication with a fixed key.
type StaticBearerAuth struct {
	Key string
}

// Apply implements the Authenticator interface for StaticBearerAuth.
func (a *StaticBearerAuth) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+a.Key)
	return nil
}

// HeaderAuth implements custom header authentication, e.g. the records
// source's X-Cybozu-API-Token.
type HeaderAuth struct {
	Header string
	Key    string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request) error {
	req.Header.Set(a.Header, a.Key)
	return nil
}
