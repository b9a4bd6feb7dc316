package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/api"
)

var (
	// ErrNoPendingPhone is returned by VerifyOTP before Login was called.
	ErrNoPendingPhone = errors.New("session: no phone awaiting verification")
	// ErrNotAuthenticated is returned by actions that need a signed-in user.
	ErrNotAuthenticated = errors.New("session: not signed in")
)

// Backend is the part of the storefront API the session needs. *client.API satisfies it.
type Backend interface {
	SendOTP(ctx context.Context, phone string) (*api.SendOTPResponse, error)
	VerifyOTP(ctx context.Context, phone, code string) (*api.VerifyOTPResponse, error)
	UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (*api.User, error)
	ListAddresses(ctx context.Context, token string) ([]api.Address, error)
}

// Store owns the session State. State changes only through its action methods; subscribers
// are called with every new snapshot.
type Store struct {
	backend Backend
	storage Storage
	log     *zap.Logger

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// NewStore returns an empty store. Call Restore to load a persisted session. log may be nil.
func NewStore(backend Backend, storage Storage, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, storage: storage, log: log, subs: map[int]func(State){}}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for state changes and returns a function that removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) dispatch(a action) State {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	next := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Restore loads a persisted user and token. The stored session is trusted as is; nothing is
// checked against the server. Unreadable entries are removed.
func (s *Store) Restore() error {
	rawUser, okUser, err := s.storage.Get(UserKey)
	if err != nil {
		return err
	}
	token, okToken, err := s.storage.Get(SessionKey)
	if err != nil {
		return err
	}
	if !okUser || !okToken || token == "" {
		return nil
	}
	var u api.User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		s.log.Warn("session: discarding unreadable stored user", zap.Error(err))
		return s.storage.Delete(UserKey, SessionKey)
	}
	s.dispatch(loginSucceeded{user: u, token: token})
	return nil
}

// Login requests a code for phone and remembers phone for VerifyOTP. The response tells the
// caller whether the server is in demo mode.
func (s *Store) Login(ctx context.Context, phone string) (*api.SendOTPResponse, error) {
	s.dispatch(otpRequested{phone: phone})
	s.dispatch(loadingSet{loading: true})
	defer s.dispatch(loadingSet{loading: false})

	resp, err := s.backend.SendOTP(ctx, phone)
	if err != nil {
		return nil, err
	}
	if resp.DemoMode && resp.DebugOTP != "" {
		s.log.Debug("session: demo mode code received", zap.String("otp", resp.DebugOTP))
	}
	return resp, nil
}

// VerifyOTP checks code for the pending phone. On success the user and token are persisted
// and the pending phone is cleared.
func (s *Store) VerifyOTP(ctx context.Context, code string) error {
	phone := s.State().PendingPhone
	if phone == "" {
		return ErrNoPendingPhone
	}
	s.dispatch(loadingSet{loading: true})
	resp, err := s.backend.VerifyOTP(ctx, phone, code)
	if err != nil {
		s.dispatch(loadingSet{loading: false})
		return err
	}
	if err := s.storage.Set(SessionKey, resp.SessionToken); err != nil {
		s.log.Warn("session: persist token failed", zap.Error(err))
	}
	s.persistUser(&resp.User)
	s.dispatch(loginSucceeded{user: resp.User, token: resp.SessionToken})
	return nil
}

// Logout forgets the session locally. It never calls the server.
func (s *Store) Logout() error {
	s.dispatch(loggedOut{})
	if err := s.storage.Delete(UserKey, SessionKey); err != nil {
		return fmt.Errorf("session: clear storage: %w", err)
	}
	return nil
}

// UpdateProfile saves name and/or email on the server and in the session.
func (s *Store) UpdateProfile(ctx context.Context, name, email *string) error {
	st := s.State()
	if !st.Authenticated() {
		return ErrNotAuthenticated
	}
	u, err := s.backend.UpdateProfile(ctx, st.SessionToken, api.UpdateProfileRequest{Name: name, Email: email})
	if err != nil {
		return err
	}
	next := s.dispatch(profileSaved{name: u.Name, email: u.Email})
	s.persistUser(next.User)
	return nil
}

// SetAddresses replaces the signed-in user's address list in the session.
func (s *Store) SetAddresses(addresses []api.Address) error {
	if !s.State().Authenticated() {
		return ErrNotAuthenticated
	}
	next := s.dispatch(addressesSet{addresses: addresses})
	s.persistUser(next.User)
	return nil
}

// RefreshAddresses reloads the address list from the server.
func (s *Store) RefreshAddresses(ctx context.Context) error {
	st := s.State()
	if !st.Authenticated() {
		return ErrNotAuthenticated
	}
	list, err := s.backend.ListAddresses(ctx, st.SessionToken)
	if err != nil {
		return err
	}
	return s.SetAddresses(list)
}

// SetLocation records the shopper's current location. nil clears it.
func (s *Store) SetLocation(loc *Location) {
	if loc != nil {
		cp := *loc
		loc = &cp
	}
	s.dispatch(locationSet{location: loc})
}

func (s *Store) persistUser(u *api.User) {
	if u == nil {
		return
	}
	raw, err := json.Marshal(u)
	if err != nil {
		s.log.Warn("session: encode user failed", zap.Error(err))
		return
	}
	if err := s.storage.Set(UserKey, string(raw)); err != nil {
		s.log.Warn("session: persist user failed", zap.Error(err))
	}
}
