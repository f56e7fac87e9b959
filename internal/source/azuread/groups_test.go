package azuread

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/moneyforward-i/admina-sso-sync/pkg/errors"
)

func TestResolveGroupFlattensNestedGroups(t *testing.T) {
	graph := newFakeGraph(t)
	graph.members["g-root"] = []directoryObject{
		userMember("u-a", "Alice", "alice@example.com"),
		groupMember("g-nested", "Nested"),
	}
	graph.members["g-nested"] = []directoryObject{
		userMember("u-b", "Bob", "bob@example.com"),
		userMember("u-c", "Carol", "carol@example.com"),
	}

	cache := NewCache()
	resolver := NewResolver(graph.client(), cache)

	members, err := resolver.ResolveGroup(context.Background(), "g-root")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u-a", "u-b", "u-c"}, members)

	// Member listings carry full profiles; expansion memoizes them.
	alice, ok := cache.User("u-a")
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", alice.Email)
}

func TestResolveGroupMemoizes(t *testing.T) {
	graph := newFakeGraph(t)
	graph.members["g1"] = []directoryObject{userMember("u-a", "Alice", "alice@example.com")}

	resolver := NewResolver(graph.client(), NewCache())
	ctx := context.Background()

	_, err := resolver.ResolveGroup(ctx, "g1")
	require.NoError(t, err)
	before := graph.requestCount("/groups/g1/members")

	_, err = resolver.ResolveGroup(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, before, graph.requestCount("/groups/g1/members"))
}

func TestResolveGroupCycleTerminates(t *testing.T) {
	graph := newFakeGraph(t)
	graph.members["g1"] = []directoryObject{
		userMember("u-a", "Alice", "alice@example.com"),
		groupMember("g2", "Two"),
	}
	graph.members["g2"] = []directoryObject{
		userMember("u-b", "Bob", "bob@example.com"),
		groupMember("g1", "One"), // membership cycle back to the root
	}

	resolver := NewResolver(graph.client(), NewCache())

	members, err := resolver.ResolveGroup(context.Background(), "g1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u-a", "u-b"}, members)

	// Each group listed exactly once despite the cycle.
	assert.Equal(t, 1, graph.requestCount("/groups/g1/members"))
	assert.Equal(t, 1, graph.requestCount("/groups/g2/members"))
}

func TestResolveGroupSkipsUnsupportedMemberTypes(t *testing.T) {
	graph := newFakeGraph(t)
	graph.members["g1"] = []directoryObject{
		userMember("u-a", "Alice", "alice@example.com"),
		{ODataType: "#microsoft.graph.device", ID: "d1", DisplayName: "Laptop"},
	}

	resolver := NewResolver(graph.client(), NewCache())

	members, err := resolver.ResolveGroup(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-a"}, members)
}

func TestResolveGroupListFailure(t *testing.T) {
	graph := newFakeGraph(t)
	graph.fail["/groups/g1/members"] = 500

	resolver := NewResolver(graph.client(), NewCache())

	_, err := resolver.ResolveGroup(context.Background(), "g1")
	require.Error(t, err)

	var re *pkgerrors.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "group", re.Kind)
	assert.Equal(t, "g1", re.ID)
}
