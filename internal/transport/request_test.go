package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyforward-i/admina-sso-sync/internal/transport"
	pkgerrors "github.com/moneyforward-i/admina-sso-sync/pkg/errors"
)

func TestDecodeResponse(t *testing.T) {
	t.Run("decodes JSON body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"value": [{"id": "a"}]}`))
		}))
		defer srv.Close()

		client := transport.New(&transport.NoAuth{})
		resp, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)

		var page struct {
			Value []struct {
				ID string `json:"id"`
			} `json:"value"`
		}
		require.NoError(t, transport.DecodeResponse(resp, "test", &page))
		require.Len(t, page.Value, 1)
		assert.Equal(t, "a", page.Value[0].ID)
	})

	t.Run("non-2xx becomes a typed fetch error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "throttled", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := transport.New(&transport.NoAuth{})
		resp, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)

		err = transport.DecodeResponse(resp, "applications", nil)
		var fe *pkgerrors.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, http.StatusTooManyRequests, fe.StatusCode)
		assert.Equal(t, "applications", fe.Endpoint)
		assert.True(t, pkgerrors.IsRateLimited(err))
	})

	t.Run("undecodable body becomes a parse error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		client := transport.New(&transport.NoAuth{})
		resp, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)

		var out map[string]any
		err = transport.DecodeResponse(resp, "accounts", &out)
		var pe *pkgerrors.ParseError
		assert.ErrorAs(t, err, &pe)
	})
}

func TestClientAppliesAuth(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := transport.New(&transport.StaticBearerAuth{Key: "k"}, transport.WithRateLimit(100))
	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NoError(t, transport.DecodeResponse(resp, "test", nil))
	assert.Equal(t, "Bearer k", got)
}
