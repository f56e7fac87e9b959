package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyforward-i/admina-sso-sync/pkg/plan"
	"github.com/moneyforward-i/admina-sso-sync/pkg/roster"
)

func users(emails ...string) []roster.User {
	out := make([]roster.User, 0, len(emails))
	for _, e := range emails {
		out = append(out, roster.User{Email: e, DisplayName: e, PrincipalID: "id-" + e})
	}
	return out
}

func accounts(emails ...string) []plan.Account {
	out := make([]plan.Account, 0, len(emails))
	for _, e := range emails {
		out = append(out, plan.Account{Email: e, DisplayName: e})
	}
	return out
}

func emailsOfUsers(us []roster.User) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, u.Email)
	}
	return out
}

func emailsOfAccounts(as []plan.Account) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.Email)
	}
	return out
}

func TestComputePartition(t *testing.T) {
	// Desired {A, B, C, D} against current {B, E}: the "Sales Tool" scenario.
	p := plan.Compute(
		users("a@example.com", "b@example.com", "c@example.com", "d@example.com"),
		accounts("b@example.com", "e@example.com"),
	)

	assert.ElementsMatch(t, []string{"a@example.com", "c@example.com", "d@example.com"}, emailsOfUsers(p.Create))
	assert.ElementsMatch(t, []string{"b@example.com"}, emailsOfUsers(p.Update))
	assert.ElementsMatch(t, []string{"e@example.com"}, emailsOfAccounts(p.Delete))
	assert.True(t, p.HasChanges())
}

func TestComputeCompleteness(t *testing.T) {
	desired := users("a@x.com", "b@x.com", "c@x.com")
	current := accounts("c@x.com", "d@x.com")

	p := plan.Compute(desired, current)

	// Every key appears in exactly one set.
	seen := map[string]int{}
	for _, u := range p.Create {
		seen[plan.Key(u.Email)]++
	}
	for _, u := range p.Update {
		seen[plan.Key(u.Email)]++
	}
	for _, a := range p.Delete {
		seen[plan.Key(a.Email)]++
	}

	all := map[string]struct{}{}
	for _, u := range desired {
		all[plan.Key(u.Email)] = struct{}{}
	}
	for _, a := range current {
		all[plan.Key(a.Email)] = struct{}{}
	}

	require.Len(t, seen, len(all))
	for key, count := range seen {
		assert.Equalf(t, 1, count, "key %s classified %d times", key, count)
	}
}

func TestComputeIdempotence(t *testing.T) {
	desired := users("a@x.com", "b@x.com")

	first := plan.Compute(desired, nil)
	require.Len(t, first.Create, 2)

	// Pretend the first plan was applied: the destination now holds exactly
	// the desired roster.
	applied := accounts(emailsOfUsers(desired)...)
	second := plan.Compute(desired, applied)

	assert.Empty(t, second.Create)
	assert.Empty(t, second.Delete)
	assert.Len(t, second.Update, 2)
	assert.False(t, second.HasChanges())
}

func TestComputeFoldsEmailCase(t *testing.T) {
	p := plan.Compute(users("User@Example.COM"), accounts("user@example.com"))

	assert.Empty(t, p.Create)
	assert.Empty(t, p.Delete)
	assert.Len(t, p.Update, 1)
}

func TestComputeEmptySides(t *testing.T) {
	t.Run("empty destination", func(t *testing.T) {
		p := plan.Compute(users("a@x.com"), nil)
		assert.Len(t, p.Create, 1)
		assert.Empty(t, p.Update)
		assert.Empty(t, p.Delete)
	})

	t.Run("empty roster deletes everything", func(t *testing.T) {
		p := plan.Compute(nil, accounts("a@x.com", "b@x.com"))
		assert.Empty(t, p.Create)
		assert.Len(t, p.Delete, 2)
	})
}

func TestChunksSizesAndOrder(t *testing.T) {
	p := plan.Compute(users("a@x", "b@x", "c@x", "d@x", "e@x"), nil)

	chunks := p.Chunks(2)
	require.Len(t, chunks, 3)
	assert.Equal(t, plan.ClassCreate, chunks[0].Class)
	assert.Equal(t, 2, chunks[0].Size())
	assert.Equal(t, 2, chunks[1].Size())
	assert.Equal(t, 1, chunks[2].Size())
}

func TestChunksClassOrdering(t *testing.T) {
	p := plan.Compute(
		users("a@x", "b@x"),
		accounts("b@x", "z@x"),
	)
	// create={a}, update={b}, delete={z}
	chunks := p.Chunks(10)
	require.Len(t, chunks, 3)
	assert.Equal(t, plan.ClassCreate, chunks[0].Class)
	assert.Equal(t, plan.ClassUpdate, chunks[1].Class)
	assert.Equal(t, plan.ClassDelete, chunks[2].Class)
}

func TestChunksUnboundedSize(t *testing.T) {
	p := plan.Compute(users("a@x", "b@x", "c@x"), nil)
	chunks := p.Chunks(0)
	require.Len(t, chunks, 1)
	assert.Equal(t, 3, chunks[0].Size())
}

func TestSummary(t *testing.T) {
	p := plan.Compute(users("a@x", "b@x"), accounts("b@x", "z@x"))
	assert.Equal(t, "existingUsers 1, newUsers 1, deleteAccounts 1", p.Summary())
}

func TestDedupe(t *testing.T) {
	dup := []roster.User{
		{Email: "a@x", PrincipalID: "p1"},
		{Email: "a@x", PrincipalID: "p1"},
		{Email: "b@x", PrincipalID: "p2"},
	}
	out := roster.Dedupe(dup)
	require.Len(t, out, 2)
	assert.Equal(t, "p1", out[0].PrincipalID)
}
