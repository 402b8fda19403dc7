// File: internal/session/state.go
package session

import "fmt"

// State is the caller's position in the "manage my business" flow.
type State int

const (
	StateNotAuthenticated State = iota
	StateNoListing
	StateHasListing
)

func (s State) String() string {
	switch s {
	case StateNotAuthenticated:
		return "not_authenticated"
	case StateNoListing:
		return "authenticated_no_listing"
	case StateHasListing:
		return "authenticated_has_listing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText renders the state by name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ManageState derives the current state from the session and whether the
// caller owns a listing.
func ManageState(s *Session, hasListing bool) State {
	switch {
	case !s.Authenticated():
		return StateNotAuthenticated
	case hasListing:
		return StateHasListing
	default:
		return StateNoListing
	}
}

// CanEdit reports whether the edit form is reachable from s.
func (s State) CanEdit() bool {
	return s == StateHasListing
}
