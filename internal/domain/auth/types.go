package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

const (
	// SessionLifetime is the absolute session lifetime for a normal login.
	SessionLifetime = 8 * time.Hour
	// RememberMeLifetime is the absolute session lifetime when "remember me"
	// is requested at login.
	RememberMeLifetime = 30 * 24 * time.Hour
	// IdleTimeout is the maximum inactivity window. A session whose last
	// activity is at least this old is expired regardless of its absolute
	// lifetime.
	IdleTimeout = 30 * time.Minute
)

// UserProfile is the authenticated principal returned by the identity
// verifier. The control plane treats it as an opaque, immutable value; it is
// only replaced wholesale on a fresh login.
type UserProfile struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	DisplayName   string `json:"display_name"`
	Department    string `json:"department"`
	WorkspaceName string `json:"workspace_name,omitempty"`
	RoleTitle     string `json:"role_title,omitempty"`
	Status        string `json:"status"`
}

// SessionRecord is the session credential persisted alongside the profile.
// Two independent expiry rules must both hold for validity: the absolute
// lifetime (ExpiresAt) and the idle window (LastActivityAt + IdleTimeout).
type SessionRecord struct {
	Token          string    `json:"token"`
	IssuedAt       time.Time `json:"issued_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
}

// Valid reports whether the session is still usable at the given instant.
// The boundary counts as expired: now == ExpiresAt is invalid, and an idle
// gap of exactly IdleTimeout is invalid.
func (s SessionRecord) Valid(now time.Time) bool {
	if !now.Before(s.ExpiresAt) {
		return false
	}
	if now.Sub(s.LastActivityAt) >= IdleTimeout {
		return false
	}
	return true
}

// Lifetime returns the absolute session lifetime for the given remember-me
// choice.
func Lifetime(rememberMe bool) time.Duration {
	if rememberMe {
		return RememberMeLifetime
	}
	return SessionLifetime
}

// Credentials carries the inputs for a login attempt.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// State is the single authentication value broadcast to all subscribers.
// Invariant: Authenticated implies User != nil and Session != nil and the
// session was valid at the last check.
type State struct {
	Authenticated bool
	Loading       bool
	User          *UserProfile
	Session       *SessionRecord
	Err           string
}
