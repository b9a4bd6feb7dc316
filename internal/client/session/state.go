// Package session holds the client-side login state: the signed-in user, the session token,
// the phone awaiting verification and the shopper's current location.
package session

import "github.com/karan399/milkman/internal/api"

// Location is a map position with an optional human-readable address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// State is an immutable snapshot of the session.
type State struct {
	User            *api.User
	SessionToken    string
	PendingPhone    string
	CurrentLocation *Location
	Loading         bool
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return s.User != nil
}

type action interface{ isAction() }

type loginSucceeded struct {
	user  api.User
	token string
}

type (
	loadingSet   struct{ loading bool }
	otpRequested struct{ phone string }
	loggedOut    struct{}
	profileSaved struct{ name, email *string }
	addressesSet struct{ addresses []api.Address }
	locationSet  struct{ location *Location }
)

func (loadingSet) isAction() {}
func (otpRequested) isAction() {}
func (loginSucceeded) isAction() {}
func (loggedOut) isAction() {}
func (profileSaved) isAction() {}
func (addressesSet) isAction() {}
func (locationSet) isAction() {}

// reduce returns the state after a. It never mutates s or anything s points to.
func reduce(s State, a action) State {
	switch a := a.(type) {
	case loadingSet:
		s.Loading = a.loading
	case otpRequested:
		s.PendingPhone = a.phone
	case loginSucceeded:
		u := a.user
		s.User = &u
		s.SessionToken = a.token
		s.PendingPhone = ""
		s.Loading = false
	case loggedOut:
		s.User = nil
		s.SessionToken = ""
		s.PendingPhone = ""
		s.Loading = false
	case profileSaved:
		if s.User == nil {
			return s
		}
		u := *s.User
		u.Name = a.name
		u.Email = a.email
		s.User = &u
	case addressesSet:
		if s.User == nil {
			return s
		}
		u := *s.User
		u.Addresses = append([]api.Address{}, a.addresses...)
		s.User = &u
	case locationSet:
		s.CurrentLocation = a.location
	}
	return s
}
