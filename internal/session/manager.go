// Package session owns "who is logged in": the cached provider session
// and the resolved account profile.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-client/internal/apperr"
	"github.com/BruksfildServices01/barber-client/internal/audit"
	"github.com/BruksfildServices01/barber-client/internal/port"
	"github.com/BruksfildServices01/barber-client/internal/validators"
)

const fallbackName = "Usuário"

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Manager struct {
	auth     port.AuthProvider
	profiles port.ProfileReader
	audit    Auditor
	log      *zap.Logger

	mu      sync.Mutex
	state   State
	session *port.Session
	profile *port.AccountProfile
	lastErr error
	// gen changes every time the cached session is replaced or cleared;
	// a profile fetch started under an older generation is discarded.
	gen uint64
	// settled is closed once the current generation reaches Ready or
	// Error, or is replaced.
	settled chan struct{}

	listeners map[int]func(Snapshot)
	nextID    int

	unsubscribe func()
}

func NewManager(
	auth port.AuthProvider,
	profiles port.ProfileReader,
	auditor Auditor,
	log *zap.Logger,
) *Manager {
	return &Manager{
		auth:      auth,
		profiles:  profiles,
		audit:     auditor,
		log:       log.Named("session"),
		state:     StateUnauthenticated,
		listeners: make(map[int]func(Snapshot)),
	}
}

// Start subscribes to provider session changes and restores the
// persisted session. Both paths may deliver the same token; only the
// first one triggers a profile fetch.
func (m *Manager) Start(ctx context.Context) error {
	changes, unsubscribe := m.auth.Subscribe()

	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-changes:
				if !ok {
					return
				}
				m.ingest(ctx, s, "notification")
			}
		}
	}()

	current, err := m.auth.CurrentSession(ctx)
	if err != nil {
		m.log.Warn("session restore failed", zap.Error(err))
		return apperr.Transport("restore session", err)
	}

	m.ingest(ctx, current, "restore")
	return nil
}

// Stop detaches from the provider's change stream.
func (m *Manager) Stop() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	email = validators.NormalizeEmail(email)
	if email == "" || password == "" {
		return apperr.Invalid("", msgFillAllFields, nil)
	}

	m.mu.Lock()
	switch m.state {
	case StateAuthenticating, StateProfileLoading:
		m.mu.Unlock()
		return ErrSignInInProgress
	case StateReady:
		m.mu.Unlock()
		return ErrAlreadySignedIn
	}
	m.lastErr = nil
	m.setState(StateAuthenticating)
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	sess, err := m.auth.SignIn(ctx, email, password)
	if err == nil && sess == nil {
		err = errNoSession
	}
	if err != nil {
		err = classify("sign in", err)

		m.mu.Lock()
		// A notification or a sign-out may have moved us on meanwhile.
		if m.state == StateAuthenticating {
			m.lastErr = err
			var credErr *apperr.CredentialError
			if errors.As(err, &credErr) {
				m.setState(StateUnauthenticated)
			} else {
				m.setState(StateError)
			}
		}
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.notify(snap)

		m.log.Info("sign in rejected", zap.String("email", email), zap.Error(err))
		return err
	}

	// The provider also announces the session on its change stream; if
	// that delivery won, wait for its profile fetch instead of returning
	// early.
	if settled := m.ingest(ctx, sess, "sign_in"); settled != nil {
		select {
		case <-settled:
		case <-ctx.Done():
			return apperr.Transport("sign in", ctx.Err())
		}
	}

	m.mu.Lock()
	settledErr := m.lastErr
	failed := m.state == StateError
	m.mu.Unlock()
	if failed {
		return settledErr
	}

	m.dispatch(audit.Event{
		AccountID: sess.AccountID,
		Action:    audit.ActionSignedIn,
		Entity:    "account",
		EntityID:  sess.AccountID,
	})
	return nil
}

// SignUp creates the account but does not sign in: the account may need
// confirmation first, so the caller goes back to the sign-in screen.
func (m *Manager) SignUp(ctx context.Context, name, email, password string) (*port.Account, error) {
	email = validators.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperr.Invalid("", msgFillRequiredFields, nil)
	}
	if !validators.IsEmail(email) {
		return nil, apperr.Invalid("email", msgInvalidEmail, nil)
	}

	account, err := m.auth.SignUp(ctx, port.ProfileSeed{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		err = classify("sign up", err)
		m.log.Info("sign up rejected", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	m.log.Info("account created", zap.String("account_id", account.ID))
	return account, nil
}

// SignOut always ends with no session and no profile cached, even when
// the provider call fails or a profile fetch is still running.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	var accountID string
	if m.session != nil {
		accountID = m.session.AccountID
	}
	m.gen++
	m.settleLocked()
	m.session = nil
	m.profile = nil
	m.lastErr = nil
	m.setState(StateUnauthenticated)
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	if accountID != "" {
		m.dispatch(audit.Event{
			AccountID: accountID,
			Action:    audit.ActionSignedOut,
			Entity:    "account",
			EntityID:  accountID,
		})
	}

	if err := m.auth.SignOut(ctx); err != nil {
		m.log.Warn("provider sign out failed", zap.Error(err))
		return apperr.Transport("sign out", err)
	}
	return nil
}

// ingest applies a session delivered by sign-in, restore or the change
// stream. Sessions are deduplicated by token, never by arrival order.
// The returned channel, when non-nil, is closed once the generation
// holding s has settled.
func (m *Manager) ingest(ctx context.Context, s *port.Session, origin string) <-chan struct{} {
	m.mu.Lock()

	if s == nil {
		if m.session == nil && m.state == StateUnauthenticated {
			m.mu.Unlock()
			return nil
		}
		m.gen++
		m.settleLocked()
		m.session = nil
		m.profile = nil
		m.setState(StateUnauthenticated)
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.notify(snap)
		return nil
	}

	if m.session != nil && m.session.Token == s.Token {
		settled := m.settled
		m.mu.Unlock()
		m.log.Debug("session already cached", zap.String("origin", origin))
		return settled
	}

	m.gen++
	m.settleLocked()
	m.settled = make(chan struct{})
	gen := m.gen
	sess := *s
	m.session = &sess
	m.profile = nil
	m.lastErr = nil
	m.setState(StateProfileLoading)
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	m.log.Debug("resolving profile",
		zap.String("origin", origin),
		zap.String("account_id", sess.AccountID),
	)
	m.resolveProfile(ctx, gen, sess)
	return nil
}

func (m *Manager) resolveProfile(ctx context.Context, gen uint64, sess port.Session) {
	profile, err := m.profiles.Profile(ctx, sess.AccountID)

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.log.Debug("discarding stale profile", zap.String("account_id", sess.AccountID))
		return
	}

	switch {
	case err == nil && profile != nil:
		profile = normalizeProfile(*profile, sess)

	case ctx.Err() != nil:
		// Forget the token so the next delivery of it fetches again.
		m.session = nil
		m.lastErr = apperr.Transport("load profile", ctx.Err())
		m.setState(StateError)
		m.settleLocked()
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.notify(snap)
		return

	default:
		if err == nil || apperr.IsNotFound(err) {
			m.log.Warn("profile missing, using fallback", zap.String("account_id", sess.AccountID))
		} else {
			m.log.Error("profile lookup failed, using fallback",
				zap.String("account_id", sess.AccountID),
				zap.Error(err),
			)
		}
		profile = fallbackProfile(sess)
	}

	m.profile = profile
	m.setState(StateReady)
	m.settleLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)
}

func fallbackProfile(sess port.Session) *port.AccountProfile {
	return &port.AccountProfile{
		ID:    sess.AccountID,
		Name:  fallbackName,
		Email: sess.Email,
		Role:  port.RoleClient,
	}
}

// normalizeProfile repairs a partially filled profile row instead of
// rejecting it.
func normalizeProfile(p port.AccountProfile, sess port.Session) *port.AccountProfile {
	if p.ID == "" {
		p.ID = sess.AccountID
	}
	if p.Name == "" {
		p.Name = fallbackName
	}
	if p.Email == "" {
		p.Email = sess.Email
	}
	if p.Role != port.RoleClient && p.Role != port.RoleAdmin {
		p.Role = port.RoleClient
	}
	return &p
}

// settleLocked releases whoever waits on the current generation. It
// must be called with mu held.
func (m *Manager) settleLocked() {
	if m.settled != nil {
		close(m.settled)
		m.settled = nil
	}
}

// setState must be called with mu held.
func (m *Manager) setState(to State) {
	if !canTransition(m.state, to) {
		m.log.Error("illegal session transition",
			zap.String("from", string(m.state)),
			zap.String("to", string(to)),
		)
		return
	}
	m.state = to
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{State: m.state, Err: m.lastErr}
	if m.session != nil {
		s := *m.session
		snap.Session = &s
	}
	if m.profile != nil {
		p := *m.profile
		snap.Profile = &p
	}
	return snap
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// AccountID is the resolved account, available only once Ready.
func (m *Manager) AccountID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady || m.session == nil {
		return "", false
	}
	return m.session.AccountID, true
}

// Watch registers fn for every state change and returns its
// unsubscribe function. fn runs on the goroutine that caused the change.
func (m *Manager) Watch(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify(snap Snapshot) {
	m.mu.Lock()
	fns := make([]func(Snapshot), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Manager) dispatch(ev audit.Event) {
	if m.audit != nil {
		m.audit.Dispatch(ev)
	}
}
