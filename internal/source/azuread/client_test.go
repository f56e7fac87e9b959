package azuread

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/moneyforward-i/admina-sso-sync/pkg/errors"
)

func TestListFollowsPaginationCursor(t *testing.T) {
	graph := newFakeGraph(t)
	graph.pageSize = 2
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		graph.users[id] = graphUser{ID: id, UserPrincipalName: id + "@example.com"}
	}

	client := graph.client(WithPageSize(2))
	users, err := client.listUsers(context.Background())
	require.NoError(t, err)

	// Every item across every page, none dropped at page boundaries.
	assert.Len(t, users, 5)
	assert.Equal(t, 3, graph.requestCount("/users?"))
}

func TestListRequestsPageSize(t *testing.T) {
	graph := newFakeGraph(t)
	graph.users["u1"] = graphUser{ID: "u1", UserPrincipalName: "u1@example.com"}

	client := graph.client(WithPageSize(999))
	_, err := client.listUsers(context.Background())
	require.NoError(t, err)

	assert.Contains(t, graph.lastRequest("/users?"), "%24top=999")
}

func TestListApplicationsFilter(t *testing.T) {
	graph := newFakeGraph(t)
	graph.apps = []application{{AppID: "a1", DisplayName: "Sales Tool"}}

	client := graph.client()
	_, err := client.listApplications(context.Background(), []string{"Sales Tool", "O'Brien App"})
	require.NoError(t, err)

	raw := graph.lastRequest("/applications?")
	query, err := url.ParseQuery(strings.TrimPrefix(raw, "/applications?"))
	require.NoError(t, err)
	assert.Equal(t, "(displayName eq 'Sales Tool') or (displayName eq 'O''Brien App')", query.Get("$filter"))
}

func TestServicePrincipalForAppMissing(t *testing.T) {
	graph := newFakeGraph(t)

	client := graph.client()
	sp, err := client.servicePrincipalForApp(context.Background(), "unknown-app")
	require.NoError(t, err)
	assert.Nil(t, sp)
}

func TestListSurfacesFetchError(t *testing.T) {
	graph := newFakeGraph(t)
	graph.fail["/users"] = 500

	client := graph.client()
	_, err := client.listUsers(context.Background())
	require.Error(t, err)

	var fe *pkgerrors.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 500, fe.StatusCode)
}

func TestListSurfacesRateLimit(t *testing.T) {
	graph := newFakeGraph(t)
	graph.fail["/applications"] = 429

	client := graph.client()
	_, err := client.listApplications(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsRateLimited(err))
}

func TestGetUserNotFound(t *testing.T) {
	graph := newFakeGraph(t)

	client := graph.client()
	_, err := client.getUser(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestClientSendsBearerToken(t *testing.T) {
	graph := newFakeGraph(t)
	graph.users["u1"] = graphUser{ID: "u1", UserPrincipalName: "u1@example.com"}

	clock := clockwork.NewFakeClock()
	provider := &fakeTokenProvider{clock: clock, lifetime: time.Hour}
	tokens := NewTokenManager(provider, "contoso", WithClock(clock))

	client := NewClient(tokens, WithBaseURL(graph.srv.URL))
	_, err := client.listUsers(context.Background())
	require.NoError(t, err)

	graph.mu.Lock()
	auth := graph.lastAuth
	graph.mu.Unlock()
	assert.True(t, strings.HasPrefix(auth, "Bearer "))
}
