package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/plantops/opsgate/internal/domain/auth"
	"github.com/plantops/opsgate/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityVerifier = (*StubVerifier)(nil)
	_ ports.Router           = (*FakeRouter)(nil)
	_ ports.AuditSink        = (*RecordingAuditSink)(nil)
	_ ports.StateStore       = (*FailingStore)(nil)
)

// StubVerifier simulates the identity collaborator with a configurable
// response.
type StubVerifier struct {
	VerifyFunc func(ctx context.Context, in ports.VerifyInput) (ports.VerifyResult, error)

	// Profile is returned on success when VerifyFunc is nil.
	Profile domainauth.UserProfile
	// Password is the accepted password when VerifyFunc is nil.
	Password string

	// Calls counts Verify invocations.
	Calls int
}

// NewStubVerifier creates a StubVerifier with a lab-technician default
// profile accepting the password "secret".
func NewStubVerifier() *StubVerifier {
	return &StubVerifier{
		Profile: domainauth.UserProfile{
			ID:            "u-1001",
			Username:      "zhang",
			DisplayName:   "张化验",
			Department:    "化验室",
			WorkspaceName: "化验室",
			RoleTitle:     "化验员",
			Status:        "active",
		},
		Password: "secret",
	}
}

func (v *StubVerifier) Verify(ctx context.Context, in ports.VerifyInput) (ports.VerifyResult, error) {
	v.Calls++
	if v.VerifyFunc != nil {
		return v.VerifyFunc(ctx, in)
	}
	if in.Password != v.Password {
		return ports.VerifyResult{Success: false, Message: "用户名或密码错误"}, nil
	}
	profile := v.Profile
	return ports.VerifyResult{Success: true, User: &profile}, nil
}

// FakeRouter records navigations for assertions.
type FakeRouter struct {
	mu        sync.Mutex
	History   []string
	Pushes    []string
	Replaces  []string
	Prefetchs []string

	// PushErr / ReplaceErr make the corresponding calls fail.
	PushErr    error
	ReplaceErr error
}

func (r *FakeRouter) Push(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.PushErr != nil {
		return r.PushErr
	}
	r.Pushes = append(r.Pushes, path)
	r.History = append(r.History, path)
	return nil
}

func (r *FakeRouter) Replace(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ReplaceErr != nil {
		return r.ReplaceErr
	}
	r.Replaces = append(r.Replaces, path)
	if len(r.History) == 0 {
		r.History = append(r.History, path)
	} else {
		r.History[len(r.History)-1] = path
	}
	return nil
}

func (r *FakeRouter) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.History) < 2 {
		return false
	}
	r.History = r.History[:len(r.History)-1]
	return true
}

func (r *FakeRouter) Prefetch(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Prefetchs = append(r.Prefetchs, path)
}

// Current returns the top of the history stack, or "".
func (r *FakeRouter) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.History) == 0 {
		return ""
	}
	return r.History[len(r.History)-1]
}

// RecordingAuditSink collects audit events in memory.
type RecordingAuditSink struct {
	mu     sync.Mutex
	Events []ports.AuditEvent
	// Err makes Record fail.
	Err error
}

func (s *RecordingAuditSink) Record(_ context.Context, ev ports.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Events = append(s.Events, ev)
	return nil
}

// Names returns the recorded event names in order.
func (s *RecordingAuditSink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Events))
	for i, ev := range s.Events {
		out[i] = ev.Event
	}
	return out
}

// FailingStore fails every operation with Err. Useful for exercising
// persistence degradation paths.
type FailingStore struct {
	Err error
}

func (s *FailingStore) Get(context.Context, string) ([]byte, error) { return nil, s.Err }
func (s *FailingStore) Set(context.Context, string, []byte) error   { return s.Err }
func (s *FailingStore) Remove(context.Context, string) error        { return s.Err }
