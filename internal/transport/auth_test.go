package transport_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyforward-i/admina-sso-sync/internal/transport"
)

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
	require.NoError(t, err)
	return req
}

func TestNoAuth(t *testing.T) {
	req := newRequest(t)
	require.NoError(t, (&transport.NoAuth{}).Apply(req))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestBearerAuth(t *testing.T) {
	t.Run("fresh token per request", func(t *testing.T) {
		calls := 0
		auth := &transport.BearerAuth{Token: func(_ context.Context) (string, error) {
			calls++
			return "tok-1", nil
		}}

		req := newRequest(t)
		require.NoError(t, auth.Apply(req))
		assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))

		require.NoError(t, auth.Apply(newRequest(t)))
		assert.Equal(t, 2, calls)
	})

	t.Run("token failure aborts the request", func(t *testing.T) {
		boom := errors.New("refresh failed")
		auth := &transport.BearerAuth{Token: func(_ context.Context) (string, error) { return "", boom }}

		req := newRequest(t)
		assert.ErrorIs(t, auth.Apply(req), boom)
		assert.Empty(t, req.Header.Get("Authorization"))
	})
}

func TestStaticBearerAuth(t *testing.T) {
	req := newRequest(t)
	require.NoError(t, (&transport.StaticBearerAuth{Key: "api-key"}).Apply(req))
	assert.Equal(t, "Bearer api-key", req.Header.Get("Authorization"))
}

func TestHeaderAuth(t *testing.T) {
	req := newRequest(t)
	require.NoError(t, (&transport.HeaderAuth{Header: "X-Cybozu-API-Token", Key: "secret"}).Apply(req))
	assert.Equal(t, "secret", req.Header.Get("X-Cybozu-API-Token"))
}
