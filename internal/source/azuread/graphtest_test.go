package azuread

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/moneyforward-i/admina-sso-sync/internal/transport"
)

// fakeGraph is an in-memory Graph API for tests. Listings paginate with a
// $skiptoken continuation when pageSize is set, mirroring the envelope the
// real service returns.
type fakeGraph struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	requests []string
	lastAuth string

	apps        []application
	principals  map[string]servicePrincipal    // by application id
	assignments map[string][]appRoleAssignment // by service principal id
	members     map[string][]directoryObject   // by group id
	users       map[string]graphUser           // by user id
	groups      []graphGroup
	fail        map[string]int // path prefix -> status code
	pageSize    int            // 0 means everything in one page
}

func newFakeGraph(t *testing.T) *fakeGraph {
	g := &fakeGraph{
		t:           t,
		principals:  make(map[string]servicePrincipal),
		assignments: make(map[string][]appRoleAssignment),
		members:     make(map[string][]directoryObject),
		users:       make(map[string]graphUser),
		fail:        make(map[string]int),
	}
	g.srv = httptest.NewServer(http.HandlerFunc(g.handle))
	t.Cleanup(g.srv.Close)
	return g
}

// client returns a Graph client pointed at the fake, unauthenticated unless
// overridden.
func (g *fakeGraph) client(opts ...ClientOption) *Client {
	base := []ClientOption{
		WithBaseURL(g.srv.URL),
		WithTransport(transport.New(&transport.NoAuth{})),
	}
	return NewClient(nil, append(base, opts...)...)
}

func (g *fakeGraph) requestCount(prefix string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, req := range g.requests {
		if strings.HasPrefix(req, prefix) {
			n++
		}
	}
	return n
}

func (g *fakeGraph) lastRequest(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.requests) - 1; i >= 0; i-- {
		if strings.HasPrefix(g.requests[i], prefix) {
			return g.requests[i]
		}
	}
	return ""
}

func (g *fakeGraph) handle(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	g.requests = append(g.requests, r.URL.Path+"?"+r.URL.RawQuery)
	if auth := r.Header.Get("Authorization"); auth != "" {
		g.lastAuth = auth
	}
	fail := g.fail
	g.mu.Unlock()

	for prefix, status := range fail {
		if strings.HasPrefix(r.URL.Path, prefix) {
			http.Error(w, `{"error":{"code":"boom"}}`, status)
			return
		}
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	parts := strings.Split(path, "/")
	switch {
	case path == "applications":
		g.writePage(w, r, asAny(g.apps))
	case path == "servicePrincipals":
		filter := r.URL.Query().Get("$filter")
		var matches []servicePrincipal
		for appID, sp := range g.principals {
			if strings.Contains(filter, "'"+appID+"'") {
				matches = append(matches, sp)
			}
		}
		g.writePage(w, r, asAny(matches))
	case len(parts) == 3 && parts[0] == "servicePrincipals" && parts[2] == "appRoleAssignedTo":
		g.writePage(w, r, asAny(g.assignments[parts[1]]))
	case len(parts) == 3 && parts[0] == "groups" && parts[2] == "members":
		g.writePage(w, r, asAny(g.members[parts[1]]))
	case path == "users":
		users := make([]graphUser, 0, len(g.users))
		for _, u := range g.users {
			users = append(users, u)
		}
		g.writePage(w, r, asAny(users))
	case len(parts) == 2 && parts[0] == "users":
		u, ok := g.users[parts[1]]
		if !ok {
			http.Error(w, `{"error":{"code":"Request_ResourceNotFound"}}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(u); err != nil {
			g.t.Errorf("encode user: %v", err)
		}
	case path == "groups":
		g.writePage(w, r, asAny(g.groups))
	default:
		http.NotFound(w, r)
	}
}

func (g *fakeGraph) writePage(w http.ResponseWriter, r *http.Request, items []any) {
	start := 0
	if tok := r.URL.Query().Get("$skiptoken"); tok != "" {
		start, _ = strconv.Atoi(tok)
	}
	end := len(items)
	if g.pageSize > 0 && start+g.pageSize < end {
		end = start + g.pageSize
	}

	out := map[string]any{"value": items[start:end]}
	if end < len(items) {
		q := r.URL.Query()
		q.Set("$skiptoken", strconv.Itoa(end))
		out["@odata.nextLink"] = g.srv.URL + r.URL.Path + "?" + q.Encode()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		g.t.Errorf("encode page: %v", err)
	}
}

func asAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func userMember(id, displayName, upn string) directoryObject {
	return directoryObject{ODataType: odataTypeUser, ID: id, DisplayName: displayName, UserPrincipalName: upn}
}

func groupMember(id, displayName string) directoryObject {
	return directoryObject{ODataType: odataTypeGroup, ID: id, DisplayName: displayName}
}
