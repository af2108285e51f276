// Package session owns the portal's current actor: one explicit context
// object, created at startup, replaced wholesale on login and logout. Views
// read it; nothing else mutates actor state.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/novabank/payportal/internal/apiclient"
	"github.com/novabank/payportal/internal/user"
)

// ErrSessionExpired is surfaced when any collaborator call under an active
// session comes back unauthorized. The session has already been torn down by
// the time a caller sees it.
var ErrSessionExpired = errors.New("session expired")

// Actor is the signed-in principal. The zero value is the explicit
// unauthenticated variant: callers check Authenticated, never nil.
type Actor struct {
	ID            uuid.UUID
	Name          string
	Role          user.Role
	AccountNumber string
	Authenticated bool
}

func Anonymous() Actor {
	return Actor{}
}

type Session struct {
	apiURL string
	client *apiclient.Client
	store  *StateStore

	mu    sync.Mutex
	actor Actor
	token string
	// gen increments whenever the session is replaced. In-flight responses
	// that carry an older generation are discarded on arrival instead of
	// being applied to a session they no longer belong to.
	gen uint64
}

func New(apiURL string, store *StateStore) *Session {
	s := &Session{apiURL: apiURL, store: store, actor: Anonymous()}
	s.client = apiclient.New(apiURL, s)

	return s
}

// Client returns the collaborator client bound to this session's token.
func (s *Session) Client() *apiclient.Client {
	return s.client
}

// Token implements apiclient.TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token
}

func (s *Session) CurrentActor() Actor {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.actor
}

// Generation identifies the session a dispatched call belongs to.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gen
}

// Stale reports whether a response tagged with gen was issued under a
// session that has since been replaced.
func (s *Session) Stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return gen != s.gen
}

func (s *Session) LoginCustomer(ctx context.Context, userName, password, accountNumber string) error {
	result, err := s.client.CustomerLogin(ctx, userName, password, accountNumber)
	if err != nil {
		// A failed login never disturbs whatever session already exists.
		return err
	}

	s.install(Actor{
		ID:            result.User.ID,
		Name:          result.User.FullName,
		Role:          user.RoleCustomer,
		AccountNumber: result.User.AccountNumber,
		Authenticated: true,
	}, result.Token)

	return nil
}

func (s *Session) LoginStaff(ctx context.Context, userName, password string) error {
	result, err := s.client.StaffLogin(ctx, userName, password)
	if err != nil {
		return err
	}

	s.install(Actor{
		ID:            result.ID,
		Name:          result.Name,
		Role:          user.RoleStaff,
		Authenticated: true,
	}, result.Token)

	return nil
}

func (s *Session) install(actor Actor, token string) {
	s.mu.Lock()
	s.actor = actor
	s.token = token
	s.gen++
	s.mu.Unlock()

	err := s.store.Save(State{Token: token, ActorID: actor.ID, Role: actor.Role})
	if err != nil {
		slog.Warn("failed to persist session", "error", err)
	}
}

// Logout tears the session down locally first; the remote invalidation is
// best effort and never blocks or fails the local teardown.
func (s *Session) Logout() {
	actor, token := s.clear()
	if !actor.Authenticated {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// The local token is already gone, so the farewell call carries its
		// own copy of the credential.
		client := apiclient.New(s.apiURL, staticToken(token))

		var err error

		switch actor.Role {
		case user.RoleCustomer:
			err = client.CustomerLogout(ctx, actor.ID)
		case user.RoleStaff:
			err = client.StaffLogout(ctx, actor.ID)
		}

		if err != nil {
			slog.Debug("remote logout failed", "error", err)
		}
	}()
}

// Expire tears the session down without notifying the backend. Used when the
// backend itself said the credential is no longer valid.
func (s *Session) Expire() {
	s.clear()
}

func (s *Session) clear() (Actor, string) {
	s.mu.Lock()
	actor, token := s.actor, s.token
	s.actor = Anonymous()
	s.token = ""
	s.gen++
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		slog.Warn("failed to clear persisted session", "error", err)
	}

	return actor, token
}

// Observe applies the global expiry policy to a collaborator result: an
// unauthorized response under an active session forces logout and is
// reported as session expiry. All other errors pass through.
func (s *Session) Observe(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, apiclient.ErrUnauthorized) {
		s.Expire()
		return ErrSessionExpired
	}

	return err
}

// Resume restores a persisted session, confirming the actor with the
// backend. A stale or rejected credential clears the persisted state.
func (s *Session) Resume(ctx context.Context) error {
	state, ok, err := s.store.Load()
	if err != nil || !ok {
		return err
	}

	s.mu.Lock()
	s.token = state.Token
	s.mu.Unlock()

	switch state.Role {
	case user.RoleCustomer:
		profile, err := s.client.CurrentCustomer(ctx, state.ActorID)
		if err != nil {
			return s.Observe(err)
		}

		s.install(Actor{
			ID:            profile.ID,
			Name:          profile.FullName,
			Role:          user.RoleCustomer,
			AccountNumber: profile.AccountNumber,
			Authenticated: true,
		}, state.Token)
	case user.RoleStaff:
		profile, err := s.client.CurrentUser(ctx, state.ActorID)
		if err != nil {
			return s.Observe(err)
		}

		s.install(Actor{
			ID:            profile.ID,
			Name:          profile.Name,
			Role:          user.RoleStaff,
			Authenticated: true,
		}, state.Token)
	default:
		s.Expire()
	}

	return nil
}

type staticToken string

func (t staticToken) Token() string { return string(t) }
