// Package roster defines the normalized identity types the sync engine
// operates on. Every record source (directory, records API) produces these
// types; everything downstream of a source is origin-agnostic.
package roster

// User is one member of an application's roster. PrincipalID is the stable
// directory key; Email is the reconciliation key used against the
// destination.
type User struct {
	Email       string
	DisplayName string
	PrincipalID string
}

// App is one application with its resolved roster. Immutable once built.
type App struct {
	AppID          string
	DisplayName    string
	PrincipalID    string
	SignInAudience string
	IdentifierURIs []string
	Tags           []string
	ServiceURL     string
	Users          []User
}

// HasTag reports whether the app carries the given service-principal tag.
func (a *App) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Failure records one application whose roster could not be built or
// written. Failures are collected, not propagated: one application's
// failure never aborts the rest of the run.
type Failure struct {
	App string
	Err error
}

// Dedupe returns the users deduplicated by principal id, preserving first
// occurrence. A user assigned both directly and via overlapping groups
// appears once.
func Dedupe(users []User) []User {
	seen := make(map[string]struct{}, len(users))
	out := make([]User, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.PrincipalID]; ok {
			continue
		}
		seen[u.PrincipalID] = struct{}{}
		out = append(out, u)
	}
	return out
}
