package bootstrap

import (
	"context"
	"log/slog"

	"github.com/plantops/opsgate/internal/ports"
	"github.com/plantops/opsgate/internal/registry"
	"github.com/plantops/opsgate/internal/service"
)

// ServiceContainer holds the wired control-plane services.
type ServiceContainer struct {
	Registry *registry.Registry
	Machine  *service.AuthMachine
	Resolver *service.RedirectResolver
	Gateway  *service.NavGateway
}

// ServiceDeps groups the adapters the services are built from.
type ServiceDeps struct {
	Store    ports.StateStore
	Verifier ports.IdentityVerifier
	Audit    ports.AuditSink
	Logger   *slog.Logger
}

// InitServices wires the route registry, auth state machine, redirect
// resolver, and navigation gateway. The machine restores persisted state
// before returning.
func InitServices(ctx context.Context, deps ServiceDeps) (ServiceContainer, error) {
	reg := registry.Default()

	machine, err := service.NewAuthMachine(service.AuthMachineOptions{
		Verifier: deps.Verifier,
		Store:    deps.Store,
		Registry: reg,
		Audit:    deps.Audit,
		Logger:   deps.Logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	machine.Initialize(ctx)

	return ServiceContainer{
		Registry: reg,
		Machine:  machine,
		Resolver: service.NewRedirectResolver(reg),
		Gateway:  service.NewNavGateway(reg, deps.Logger),
	}, nil
}
