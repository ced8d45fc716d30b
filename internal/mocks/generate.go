// Package mocks provides generated mock implementations for testing the
// control-plane ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the port interfaces. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	verifier := mocks.NewMockIdentityVerifier(ctrl)
//	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(result, nil)
package mocks

// Generate mock for IdentityVerifier interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_verifier_mock.go github.com/plantops/opsgate/internal/ports IdentityVerifier

// Generate mock for StateStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=state_store_mock.go github.com/plantops/opsgate/internal/ports StateStore

// Generate mock for AuditSink interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=audit_sink_mock.go github.com/plantops/opsgate/internal/ports AuditSink
