package auth

import (
	"testing"
	"time"
)

func TestSessionRecord_Valid(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := SessionRecord{
		Token:          "opsgate_test",
		IssuedAt:       issued,
		ExpiresAt:      issued.Add(SessionLifetime),
		LastActivityAt: issued,
	}

	if !s.Valid(issued.Add(time.Minute)) {
		t.Fatalf("expected fresh session to be valid")
	}
	// Idle boundary counts as expired.
	if s.Valid(issued.Add(IdleTimeout)) {
		t.Fatalf("expected session idle for exactly the timeout to be invalid")
	}
	if !s.Valid(issued.Add(IdleTimeout - time.Second)) {
		t.Fatalf("expected session just inside the idle window to be valid")
	}

	// Absolute boundary counts as expired even with recent activity.
	s.LastActivityAt = issued.Add(SessionLifetime - time.Minute)
	if s.Valid(issued.Add(SessionLifetime)) {
		t.Fatalf("expected session at absolute expiry to be invalid")
	}
}

func TestLifetime(t *testing.T) {
	if Lifetime(false) != SessionLifetime {
		t.Fatalf("unexpected default lifetime: %v", Lifetime(false))
	}
	if Lifetime(true) != RememberMeLifetime {
		t.Fatalf("unexpected remember-me lifetime: %v", Lifetime(true))
	}
}
