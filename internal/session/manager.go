// Package session owns the client's authentication lifecycle: establishing,
// validating and invalidating the one token the client holds.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"buget/internal/core"
	"buget/internal/log"
)

// ErrRestorePending is returned by Login and Register before Restore has
// settled the initial state.
var ErrRestorePending = errors.New("session restore has not completed")

// Manager holds at most one Session. Restore, Login, Register and Logout are
// serialized so the token store never sees interleaved writes.
type Manager struct {
	auth      Authenticator
	store     TokenStore
	logger    *log.Logger
	now       func() time.Time
	observers []Observer

	op sync.Mutex // serializes state-changing operations

	mu      sync.RWMutex
	state   State
	session *core.Session

	ready     chan struct{}
	readyOnce sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithObserver registers fn to be called after every transition.
func WithObserver(fn Observer) Option {
	return func(m *Manager) { m.observers = append(m.observers, fn) }
}

func NewManager(auth Authenticator, store TokenStore, logger *log.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	m := &Manager{
		auth:   auth,
		store:  store,
		logger: logger.WithComponent(log.ComponentSession),
		now:    time.Now,
		state:  Unknown,
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns a copy of the active session, if any, and the state.
func (m *Manager) Current() (*core.Session, State) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, m.state
	}
	s := *m.session
	return &s, m.state
}

// Ready is closed once the initial state has been settled. Protected content
// must not be shown before then.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// Restore settles the initial state from a previously persisted token. Any
// failure to validate the token erases it and leaves the manager Anonymous;
// the returned error is only non-nil when erasing itself failed. Calls after
// the first return the settled session without doing any work.
func (m *Manager) Restore(ctx context.Context) (*core.Session, error) {
	m.op.Lock()
	defer m.op.Unlock()

	if s, state := m.Current(); state != Unknown {
		return s, nil
	}

	token, ok, err := m.store.Get(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "Could not read persisted token", log.FieldError, err)
		return nil, m.discard(ctx, ReasonRejected)
	}
	if !ok || token == "" {
		if ok {
			return nil, m.discard(ctx, ReasonNoToken)
		}
		m.transition(ctx, nil, Anonymous, ReasonNoToken)
		return nil, nil
	}

	if tokenExpired(token, m.now()) {
		m.logger.InfoContext(ctx, "Persisted token has expired", log.FieldOperation, log.OpRestore)
		return nil, m.discard(ctx, ReasonRejected)
	}

	user, err := m.auth.Me(ctx, token)
	if err != nil {
		m.logger.WarnContext(ctx, "Persisted token rejected",
			log.FieldOperation, log.OpRestore,
			log.FieldError, err)
		return nil, m.discard(ctx, ReasonRejected)
	}

	s := core.Session{Token: token, Identity: user, EstablishedAt: m.now()}
	m.transition(ctx, &s, Authenticated, ReasonRestored)
	m.logger.InfoContext(ctx, "Session restored", log.FieldUserID, user.ID)
	return &s, nil
}

// Login authenticates and replaces any existing session.
func (m *Manager) Login(ctx context.Context, email, password string) (*core.Session, error) {
	if err := core.ValidateCredentials(email, password); err != nil {
		return nil, err
	}
	return m.establish(ctx, ReasonLogin, func() (core.AuthResult, error) {
		return m.auth.Login(ctx, email, password)
	})
}

// Register creates the identity and logs straight into it.
func (m *Manager) Register(ctx context.Context, email, password string) (*core.Session, error) {
	if err := core.ValidateNewPassword(email, password); err != nil {
		return nil, err
	}
	return m.establish(ctx, ReasonRegister, func() (core.AuthResult, error) {
		return m.auth.Register(ctx, email, password)
	})
}

func (m *Manager) establish(ctx context.Context, reason string, call func() (core.AuthResult, error)) (*core.Session, error) {
	m.op.Lock()
	defer m.op.Unlock()

	if _, state := m.Current(); state == Unknown {
		return nil, ErrRestorePending
	}

	res, err := call()
	if err != nil {
		m.logger.WarnContext(ctx, "Authentication failed", log.FieldOperation, reason, log.FieldError, err)
		return nil, err
	}
	if res.Token == "" {
		return nil, &core.TransportError{Op: reason, Err: errors.New("gateway returned an empty token")}
	}

	if err := m.store.Set(ctx, res.Token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}

	s := core.Session{Token: res.Token, Identity: res.User, EstablishedAt: m.now()}
	m.transition(ctx, &s, Authenticated, reason)
	m.logger.InfoContext(ctx, "Session established", log.FieldOperation, reason, log.FieldUserID, res.User.ID)
	return &s, nil
}

// Logout erases the durable token and clears the session. It is safe to
// call in any state, any number of times. The in-memory session is cleared
// even when erasing the token fails; that failure is returned.
func (m *Manager) Logout(ctx context.Context) error {
	m.op.Lock()
	defer m.op.Unlock()
	return m.clear(ctx, ReasonLogout)
}

// ForceLogout ends the session after an authenticated call with token was
// rejected. It does nothing if the session has since been replaced, so a
// late rejection of an old token cannot end a newer session.
func (m *Manager) ForceLogout(ctx context.Context, token string, cause error) error {
	m.op.Lock()
	defer m.op.Unlock()

	s, _ := m.Current()
	if s == nil || s.Token != token {
		return nil
	}
	m.logger.WarnContext(ctx, "Session rejected by gateway, signing out",
		log.FieldUserID, s.Identity.ID,
		log.FieldError, cause)
	return m.clear(ctx, ReasonForced)
}

func (m *Manager) clear(ctx context.Context, reason string) error {
	err := m.store.Clear(ctx)
	s, state := m.Current()
	if state != Anonymous || s != nil {
		m.transition(ctx, nil, Anonymous, reason)
	} else {
		m.markReady()
	}
	if err != nil {
		return fmt.Errorf("erase token: %w", err)
	}
	return nil
}

// discard erases a token that failed validation and settles Anonymous.
func (m *Manager) discard(ctx context.Context, reason string) error {
	err := m.store.Clear(ctx)
	m.transition(ctx, nil, Anonymous, reason)
	if err != nil {
		m.logger.ErrorContext(ctx, "Could not erase rejected token", log.FieldError, err)
		return fmt.Errorf("erase rejected token: %w", err)
	}
	return nil
}

func (m *Manager) transition(ctx context.Context, s *core.Session, to State, reason string) {
	m.mu.Lock()
	change := Change{From: m.state, To: to, Reason: reason}
	switch {
	case s != nil:
		change.UserID = s.Identity.ID
	case m.session != nil:
		change.UserID = m.session.Identity.ID
	}
	m.session = nil
	if s != nil {
		cp := *s
		m.session = &cp
	}
	m.state = to
	m.mu.Unlock()

	m.markReady()
	m.logger.DebugContext(ctx, "Session state changed",
		log.FieldState, to.String(),
		"from", change.From.String(),
		"reason", reason)
	for _, obs := range m.observers {
		obs(ctx, change)
	}
}

func (m *Manager) markReady() {
	m.readyOnce.Do(func() { close(m.ready) })
}
