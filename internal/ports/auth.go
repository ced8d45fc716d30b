package ports

// Package ports defines interfaces (hexagonal ports) for the control plane.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/plantops/opsgate/internal/domain/auth"
)

// Storage keys for the persisted auth state. All three are written together
// on login; KeySessionData alone is rewritten on each activity refresh.
const (
	KeyUserData    = "user-data"
	KeySessionData = "session-data"
	KeyRememberMe  = "remember-me"
)

// ErrNotFound is returned by StateStore.Get when a key has no value.
var ErrNotFound error = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "state store: key not found" }

// StateStore is the persistence boundary for auth state: a small durable
// key/value store. It carries no business logic; validity rules live in the
// state machine.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// VerifyInput carries a credential check to the identity verifier.
type VerifyInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// VerifyResult is the identity verifier's answer. RedirectURL is advisory
// only; the final landing path is always computed by the redirect resolver.
type VerifyResult struct {
	Success     bool                    `json:"success"`
	User        *domainauth.UserProfile `json:"user,omitempty"`
	RedirectURL string                  `json:"redirectUrl,omitempty"`
	Message     string                  `json:"message,omitempty"`
	ErrMessage  string                  `json:"error,omitempty"`
}

// IdentityVerifier validates credentials against the identity collaborator
// and returns the user profile on success. Transport failures are returned
// as errors; bad credentials come back as a non-success VerifyResult.
type IdentityVerifier interface {
	Verify(ctx context.Context, in VerifyInput) (VerifyResult, error)
}

// Router abstracts the host router the navigation gateway drives. Back
// reports whether history existed to go back to.
type Router interface {
	Push(path string) error
	Replace(path string) error
	Back() bool
	Prefetch(path string)
}

// AuditEvent is one login/logout occurrence recorded for the audit trail.
type AuditEvent struct {
	Event      string
	UserID     string
	Username   string
	RemoteAddr string
	Detail     string
	OccurredAt time.Time
}

// Audit event names.
const (
	AuditLoginSuccess = "login_success"
	AuditLoginFailure = "login_failure"
	AuditLogout       = "logout"
)

// AuditSink records auth events. Implementations must be safe to call with
// a nil-receiver guard upstream; sink failures never fail the auth flow.
type AuditSink interface {
	Record(ctx context.Context, ev AuditEvent) error
}
