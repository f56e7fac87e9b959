// Package plan computes the three-way reconciliation between a desired
// roster and the accounts a destination workspace currently holds, and
// splits the result into bounded-size write chunks.
package plan

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/moneyforward-i/admina-sso-sync/pkg/roster"
)

// Account is a destination-side record for one workspace member.
type Account struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Class identifies which write set a chunk belongs to.
type Class string

// Write classes, applied in declaration order.
const (
	ClassCreate Class = "create"
	ClassUpdate Class = "update"
	ClassDelete Class = "delete"
)

// Plan partitions a desired roster against current destination accounts by
// email. The three sets are pairwise disjoint and cover every email present
// on either side.
type Plan struct {
	Create []roster.User
	Update []roster.User
	Delete []Account
}

// folder case-folds reconciliation keys so the partition is insensitive to
// email casing differences between the directory and the destination.
var folder = cases.Fold()

// Key returns the folded reconciliation key for an email.
func Key(email string) string {
	return folder.String(email)
}

// Compute partitions desired against current: present in both ⇒ update,
// only desired ⇒ create, only current ⇒ delete. Desired users with an empty
// email never match anything and are classified as creates; callers are
// expected to have filtered them out at the source boundary.
func Compute(desired []roster.User, current []Account) *Plan {
	p := &Plan{}

	currentByKey := make(map[string]Account, len(current))
	for _, account := range current {
		currentByKey[Key(account.Email)] = account
	}

	desiredKeys := make(map[string]struct{}, len(desired))
	for _, user := range desired {
		key := Key(user.Email)
		desiredKeys[key] = struct{}{}
		if _, exists := currentByKey[key]; exists {
			p.Update = append(p.Update, user)
		} else {
			p.Create = append(p.Create, user)
		}
	}

	for _, account := range current {
		if _, wanted := desiredKeys[Key(account.Email)]; !wanted {
			p.Delete = append(p.Delete, account)
		}
	}

	return p
}

// HasChanges reports whether applying the plan would write anything beyond
// refreshing existing accounts.
func (p *Plan) HasChanges() bool {
	return len(p.Create) > 0 || len(p.Delete) > 0
}

// Summary returns a human-readable count line in the order the original
// reported them: existing, new, deleted.
func (p *Plan) Summary() string {
	return fmt.Sprintf("existingUsers %d, newUsers %d, deleteAccounts %d",
		len(p.Update), len(p.Create), len(p.Delete))
}

// Chunk is one bounded-size write request: exactly one class per chunk,
// sized to respect destination payload limits.
type Chunk struct {
	Class    Class
	Users    []roster.User // create and update chunks
	Accounts []Account     // delete chunks
}

// Size returns the number of entries in the chunk.
func (c *Chunk) Size() int {
	if c.Class == ClassDelete {
		return len(c.Accounts)
	}
	return len(c.Users)
}

// Chunks splits the plan into write requests of at most size entries each,
// ordered create → update → delete. A non-positive size means one chunk per
// non-empty class.
func (p *Plan) Chunks(size int) []Chunk {
	var chunks []Chunk
	for _, part := range splitUsers(p.Create, size) {
		chunks = append(chunks, Chunk{Class: ClassCreate, Users: part})
	}
	for _, part := range splitUsers(p.Update, size) {
		chunks = append(chunks, Chunk{Class: ClassUpdate, Users: part})
	}
	for _, part := range splitAccounts(p.Delete, size) {
		chunks = append(chunks, Chunk{Class: ClassDelete, Accounts: part})
	}
	return chunks
}

func splitUsers(users []roster.User, size int) [][]roster.User {
	if len(users) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]roster.User{users}
	}
	var parts [][]roster.User
	for start := 0; start < len(users); start += size {
		end := start + size
		if end > len(users) {
			end = len(users)
		}
		parts = append(parts, users[start:end])
	}
	return parts
}

func splitAccounts(accounts []Account, size int) [][]Account {
	if len(accounts) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]Account{accounts}
	}
	var parts [][]Account
	for start := 0; start < len(accounts); start += size {
		end := start + size
		if end > len(accounts) {
			end = len(accounts)
		}
		parts = append(parts, accounts[start:end])
	}
	return parts
}
