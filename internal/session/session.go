// ABOUTME: Session manager that owns the bearer token and the signed-in user
// ABOUTME: Every mutation goes through Initialize, RestoreSession, Login, Logout, or Unauthorized

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/tokenstore"
)

// ErrMissingIdentifier is returned when /me answers without an id or userId
var ErrMissingIdentifier = errors.New("profile response has no user identifier")

// ErrSuperseded is returned when a logout or newer login replaced the session
// while a profile fetch was in flight. The fetch result was discarded.
var ErrSuperseded = errors.New("session changed while the profile was loading")

// User is the signed-in user's profile
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// State is an immutable snapshot of the session
type State struct {
	Token           string `json:"-"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	User            *User  `json:"user"`
}

// CurrentUserID returns the resolved user ID, or "" when unknown
func (s State) CurrentUserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// ProfileAPI is the slice of the API client the manager needs
type ProfileAPI interface {
	Me(ctx context.Context, token string) (*client.MeResponse, error)
}

// Manager is the single source of truth for who is signed in
type Manager struct {
	api    ProfileAPI
	store  tokenstore.Store
	logger *slog.Logger

	mu         sync.Mutex
	state      State
	generation uint64

	subMu       sync.Mutex
	subscribers map[int]func(State)
	nextSubID   int

	onLoginRequired func()
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used for session events
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithLoginRedirect sets the hook that routes the user to the login entry
// point after a 401
func WithLoginRedirect(fn func()) Option {
	return func(m *Manager) {
		m.onLoginRequired = fn
	}
}

// New creates a logged-out manager backed by api and store
func New(api ProfileAPI, store tokenstore.Store, opts ...Option) *Manager {
	m := &Manager{
		api:         api,
		store:       store,
		logger:      slog.Default(),
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns the current state
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyState()
}

// Token returns the active bearer token, or "" when logged out
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// Subscribe registers fn to be called with the new state after every change.
// Calls happen synchronously on the goroutine that made the change.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subscribers, id)
		m.subMu.Unlock()
	}
}

// Initialize restores the session from the token store. An empty or
// unreadable store leaves the session logged out.
func (m *Manager) Initialize(ctx context.Context) {
	token, err := m.store.Load()
	if err != nil {
		m.logger.Warn("Could not read stored token", "error", err)
		return
	}
	if token == "" {
		m.logger.Debug("No stored token, starting logged out")
		return
	}

	m.logger.Debug("Found stored token, restoring session")
	if err := m.RestoreSession(ctx, token); err != nil {
		m.logger.Debug("Session restore did not complete", "error", err)
	}
}

// RestoreSession activates token, persists it, and resolves the profile. When
// /me fails the token's claims provide a display-only profile; when that fails
// too the session is logged out.
func (m *Manager) RestoreSession(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("empty token")
	}

	gen, err := m.activate(token)
	if err != nil {
		m.logger.Error("Failed to persist token", "error", err)
		return fmt.Errorf("failed to persist token: %w", err)
	}

	user, err := m.FetchProfile(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			// Normally the pipeline has already cleared the session
			if !m.logoutIfCurrent(gen) && m.heldByOther(token) {
				return ErrSuperseded
			}
			return err
		}
		m.logger.Warn("Failed to fetch profile, using token claims", "error", err, "status", client.StatusOf(err))

		fallback, ferr := ProfileFromToken(token)
		if ferr != nil {
			m.logger.Warn("No profile available from token", "error", ferr)
			if !m.logoutIfCurrent(gen) {
				return ErrSuperseded
			}
			return fmt.Errorf("%w (fallback: %v)", err, ferr)
		}
		user = fallback
	}

	if !m.commitUser(gen, user) {
		m.logger.Debug("Discarding stale profile", "generation", gen)
		return ErrSuperseded
	}
	m.logger.Info("Session restored", "user", user.Name, "user_id", user.ID)
	return nil
}

// FetchProfile calls /me with token and normalizes the response
func (m *Manager) FetchProfile(ctx context.Context, token string) (*User, error) {
	me, err := m.api.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	id := me.Identifier()
	if id == "" {
		return nil, ErrMissingIdentifier
	}
	return &User{
		ID:    id,
		Name:  me.Name,
		Email: me.Email,
		Role:  me.Role,
	}, nil
}

// Login starts a session from a successful login response. A nil response or
// one without a token leaves the session unchanged.
func (m *Manager) Login(ctx context.Context, resp *client.AuthResponse) error {
	if resp == nil || resp.Token == "" {
		return nil
	}
	return m.RestoreSession(ctx, resp.Token)
}

// Logout clears the persisted token and the in-memory session. Safe to call
// when already logged out.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.generation++
	m.clearLocked()
	m.mu.Unlock()

	m.logger.Debug("Logged out")
	m.notify()
}

// Unauthorized applies the 401 policy: log out, then route to login
func (m *Manager) Unauthorized() {
	m.logger.Info("API rejected the session, signing out")
	m.Logout()
	if m.onLoginRequired != nil {
		m.onLoginRequired()
	}
}

// activate installs and persists the token as a new authenticated session
// with no user yet. A token that cannot be persisted leaves the session
// logged out.
func (m *Manager) activate(token string) (uint64, error) {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.state = State{Token: token, IsAuthenticated: true}
	err := m.store.Save(token)
	if err != nil {
		m.generation++
		m.clearLocked()
	}
	m.mu.Unlock()

	m.notify()
	return gen, err
}

// commitUser sets the profile only if no other operation has run since gen
func (m *Manager) commitUser(gen uint64, user *User) bool {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return false
	}
	u := *user
	m.state.User = &u
	m.mu.Unlock()

	m.notify()
	return true
}

// logoutIfCurrent logs out only if no other operation has run since gen
func (m *Manager) logoutIfCurrent(gen uint64) bool {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return false
	}
	m.generation++
	m.clearLocked()
	m.mu.Unlock()

	m.notify()
	return true
}

// heldByOther reports whether a different token is now active
func (m *Manager) heldByOther(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token != "" && m.state.Token != token
}

func (m *Manager) clearLocked() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("Failed to clear stored token", "error", err)
	}
	m.state = State{}
}

func (m *Manager) copyState() State {
	s := m.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (m *Manager) notify() {
	state := m.Snapshot()

	m.subMu.Lock()
	subs := make([]func(State), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.subMu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
