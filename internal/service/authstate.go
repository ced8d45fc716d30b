package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/plantops/opsgate/internal/clock"
	domainauth "github.com/plantops/opsgate/internal/domain/auth"
	"github.com/plantops/opsgate/internal/ports"
	"github.com/plantops/opsgate/internal/registry"
)

// sessionTokenPrefix namespaces locally generated session tokens.
const sessionTokenPrefix = "opsgate_"

// AuthMachineOptions groups dependencies for AuthMachine.
type AuthMachineOptions struct {
	Verifier ports.IdentityVerifier
	Store    ports.StateStore
	Registry *registry.Registry
	// Router receives the hard navigation to the login page on logout.
	// Optional.
	Router ports.Router
	// Audit receives login/logout events. Optional; failures are logged,
	// never surfaced.
	Audit  ports.AuditSink
	Clock  clock.Clock
	Logger *slog.Logger
}

// AuthMachine owns the authentication state for one running client: session
// validity, login/logout orchestration, and the broadcast of state changes
// to subscribers. Construct exactly one per process and inject it; there is
// no package-level instance.
type AuthMachine struct {
	verifier ports.IdentityVerifier
	store    ports.StateStore
	registry *registry.Registry
	router   ports.Router
	audit    ports.AuditSink
	clock    clock.Clock
	logger   *slog.Logger

	initOnce sync.Once

	mu        sync.Mutex
	state     domainauth.State
	listeners map[int]func(domainauth.State)
	nextID    int
}

// NewAuthMachine constructs an AuthMachine. Verifier, Store, and Registry
// are required.
func NewAuthMachine(opts AuthMachineOptions) (*AuthMachine, error) {
	if opts.Verifier == nil {
		return nil, errors.New("auth machine: Verifier is required")
	}
	if opts.Store == nil {
		return nil, errors.New("auth machine: Store is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("auth machine: Registry is required")
	}
	c := opts.Clock
	if c == nil {
		c = clock.System{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMachine{
		verifier:  opts.Verifier,
		store:     opts.Store,
		registry:  opts.Registry,
		router:    opts.Router,
		audit:     opts.Audit,
		clock:     c,
		logger:    logger,
		listeners: make(map[int]func(domainauth.State)),
	}, nil
}

// Initialize restores persisted auth state. A valid persisted session moves
// the machine to authenticated and refreshes its activity stamp; anything
// else clears all persisted state. Runs exactly once per process lifetime;
// later calls are no-ops.
func (m *AuthMachine) Initialize(ctx context.Context) {
	m.initOnce.Do(func() {
		m.setState(domainauth.State{Loading: true})

		user, session, ok := m.readPersisted(ctx)
		if !ok || !session.Valid(m.clock.Now()) {
			m.clearPersisted(ctx)
			m.setState(domainauth.State{})
			return
		}

		session.LastActivityAt = m.clock.Now()
		m.persistSession(ctx, session)
		m.setState(domainauth.State{
			Authenticated: true,
			User:          user,
			Session:       session,
		})
	})
}

// LoginOutcome is the tagged result of a login attempt. Failures of any
// kind land here; Login never panics across this boundary.
type LoginOutcome struct {
	Success bool
	User    *domainauth.UserProfile
	Session *domainauth.SessionRecord
	// AdvisoryRedirect is the verifier's suggested landing path. Callers
	// compute the real target through the redirect resolver.
	AdvisoryRedirect string
	// Message explains a failure in user-facing terms.
	Message string
}

// Login validates credentials with the identity verifier and, on success,
// issues a fresh session and persists the full state. Concurrent calls are
// not deduplicated: each runs its own verification and the last response to
// arrive wins.
func (m *AuthMachine) Login(ctx context.Context, creds domainauth.Credentials, rememberMe bool) LoginOutcome {
	m.setState(domainauth.State{Loading: true})

	result, err := m.verifier.Verify(ctx, ports.VerifyInput{
		Email:      creds.Email,
		Password:   creds.Password,
		RememberMe: rememberMe,
	})
	if err != nil {
		m.logger.WarnContext(ctx, "identity verification failed", "error", err)
		const msg = "登录失败，请稍后重试"
		m.setState(domainauth.State{Err: msg})
		m.recordAudit(ctx, ports.AuditEvent{
			Event:    ports.AuditLoginFailure,
			Username: creds.Email,
			Detail:   "transport failure",
		})
		return LoginOutcome{Message: msg}
	}
	if !result.Success || result.User == nil {
		msg := result.Message
		if msg == "" {
			msg = "用户名或密码错误"
		}
		m.setState(domainauth.State{Err: msg})
		m.recordAudit(ctx, ports.AuditEvent{
			Event:    ports.AuditLoginFailure,
			Username: creds.Email,
			Detail:   "rejected credentials",
		})
		return LoginOutcome{Message: msg}
	}

	now := m.clock.Now()
	user := *result.User
	session := &domainauth.SessionRecord{
		Token:          sessionTokenPrefix + uuid.NewString(),
		IssuedAt:       now,
		ExpiresAt:      now.Add(domainauth.Lifetime(rememberMe)),
		LastActivityAt: now,
		UserID:         user.ID,
		Username:       user.Username,
	}

	m.persistAll(ctx, &user, session, rememberMe)
	m.setState(domainauth.State{
		Authenticated: true,
		User:          &user,
		Session:       session,
	})
	m.recordAudit(ctx, ports.AuditEvent{
		Event:    ports.AuditLoginSuccess,
		UserID:   user.ID,
		Username: user.Username,
	})

	return LoginOutcome{
		Success:          true,
		User:             &user,
		Session:          session,
		AdvisoryRedirect: result.RedirectURL,
	}
}

// Logout clears persisted and in-memory state, then hard-navigates to the
// login entry point. Not reversible; no grace period.
func (m *AuthMachine) Logout(ctx context.Context) {
	m.mu.Lock()
	user := m.state.User
	m.mu.Unlock()

	m.clearPersisted(ctx)
	m.setState(domainauth.State{})

	if user != nil {
		m.recordAudit(ctx, ports.AuditEvent{
			Event:    ports.AuditLogout,
			UserID:   user.ID,
			Username: user.Username,
		})
	}
	if m.router != nil {
		if err := m.router.Replace(registry.LoginPath); err != nil {
			m.logger.WarnContext(ctx, "logout navigation failed", "error", err)
		}
	}
}

// CheckAuthStatus is the central gate before every protected access. An
// invalid session is expired on read: state and persistence are cleared and
// the caller gets false. A valid session gets its activity stamp refreshed.
func (m *AuthMachine) CheckAuthStatus(ctx context.Context) bool {
	m.mu.Lock()
	user, session := m.state.User, m.state.Session
	m.mu.Unlock()

	if user == nil || session == nil {
		return false
	}
	now := m.clock.Now()
	if !session.Valid(now) {
		m.clearPersisted(ctx)
		m.setState(domainauth.State{})
		return false
	}

	refreshed := *session
	refreshed.LastActivityAt = now
	m.persistSession(ctx, &refreshed)

	m.mu.Lock()
	// Only apply the refresh if no transition happened in between.
	if m.state.Session == session {
		m.state.Session = &refreshed
	}
	m.mu.Unlock()
	return true
}

// HasPermission reports whether the current user may access path. It
// delegates to the route registry using the user's role title.
func (m *AuthMachine) HasPermission(path string) bool {
	m.mu.Lock()
	user := m.state.User
	m.mu.Unlock()

	roleTitle := ""
	if user != nil {
		roleTitle = user.RoleTitle
	}
	return m.registry.HasPermission(path, roleTitle)
}

// CurrentState returns a snapshot of the authentication state.
func (m *AuthMachine) CurrentState() domainauth.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers a listener that is invoked immediately with the
// current state and again on every transition, in subscription order. The
// returned function unsubscribes; calling it more than once is harmless.
func (m *AuthMachine) Subscribe(listener func(domainauth.State)) func() {
	if listener == nil {
		return func() {}
	}

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener
	current := m.state
	m.mu.Unlock()

	m.invoke(listener, current)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// ListenerCount returns the number of registered listeners. Intended for
// tests.
func (m *AuthMachine) ListenerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

// setState replaces the state and broadcasts it. The broadcast is
// synchronous and ordered by subscription; a panicking listener is isolated
// so later listeners still fire.
func (m *AuthMachine) setState(next domainauth.State) {
	m.mu.Lock()
	m.state = next

	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	// Map iteration order is random; restore subscription order.
	sort.Ints(ids)
	fns := make([]func(domainauth.State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.listeners[id])
	}
	m.mu.Unlock()

	for _, fn := range fns {
		m.invoke(fn, next)
	}
}

func (m *AuthMachine) invoke(fn func(domainauth.State), s domainauth.State) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("auth state listener panicked", "panic", r)
		}
	}()
	fn(s)
}

func (m *AuthMachine) readPersisted(ctx context.Context) (*domainauth.UserProfile, *domainauth.SessionRecord, bool) {
	userRaw, err := m.store.Get(ctx, ports.KeyUserData)
	if err != nil {
		return nil, nil, false
	}
	sessionRaw, err := m.store.Get(ctx, ports.KeySessionData)
	if err != nil {
		return nil, nil, false
	}

	var user domainauth.UserProfile
	if err := json.Unmarshal(userRaw, &user); err != nil {
		return nil, nil, false
	}
	var session domainauth.SessionRecord
	if err := json.Unmarshal(sessionRaw, &session); err != nil {
		return nil, nil, false
	}
	return &user, &session, true
}

// persistAll writes user, session, and the remember-me flag together.
func (m *AuthMachine) persistAll(ctx context.Context, user *domainauth.UserProfile, session *domainauth.SessionRecord, rememberMe bool) {
	if err := m.setJSON(ctx, ports.KeyUserData, user); err != nil {
		m.logger.WarnContext(ctx, "persist user failed", "error", err)
	}
	m.persistSession(ctx, session)
	if err := m.setJSON(ctx, ports.KeyRememberMe, rememberMe); err != nil {
		m.logger.WarnContext(ctx, "persist remember-me failed", "error", err)
	}
}

// persistSession rewrites only the session record, as happens on each
// activity refresh.
func (m *AuthMachine) persistSession(ctx context.Context, session *domainauth.SessionRecord) {
	if err := m.setJSON(ctx, ports.KeySessionData, session); err != nil {
		m.logger.WarnContext(ctx, "persist session failed", "error", err)
	}
}

func (m *AuthMachine) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return m.store.Set(ctx, key, data)
}

func (m *AuthMachine) clearPersisted(ctx context.Context) {
	for _, key := range []string{ports.KeyUserData, ports.KeySessionData, ports.KeyRememberMe} {
		if err := m.store.Remove(ctx, key); err != nil {
			m.logger.WarnContext(ctx, "clear persisted state failed", "key", key, "error", err)
		}
	}
}

func (m *AuthMachine) recordAudit(ctx context.Context, ev ports.AuditEvent) {
	if m.audit == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = m.clock.Now()
	}
	if err := m.audit.Record(ctx, ev); err != nil {
		m.logger.WarnContext(ctx, "audit record failed", "event", ev.Event, "error", err)
	}
}
