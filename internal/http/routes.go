package httpx

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/plantops/opsgate/internal/registry"
	"github.com/plantops/opsgate/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Machine  *service.AuthMachine
	Resolver *service.RedirectResolver
	Registry *registry.Registry
	Logger   *slog.Logger

	// Compression enables gzip on responses at the given level.
	Compression      bool
	CompressionLevel int
}

// NewRouter builds the HTTP surface: auth endpoints, the navigation API
// behind the session gate, health checks, and the edge gate over everything
// that is not infrastructure traffic.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Machine:  services.Machine,
		Resolver: services.Resolver,
		Logger:   logger,
	}
	navHandlers := &NavigationHandlers{
		Registry: services.Registry,
		Machine:  services.Machine,
		Resolver: services.Resolver,
	}

	mux.Handle("POST /auth/login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("POST /auth/logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /auth/session", http.HandlerFunc(authHandlers.Session))

	requireSession := RequireSession(services.Machine)
	mux.Handle("GET /api/navigation/menu", requireSession(http.HandlerFunc(navHandlers.Menu)))
	mux.Handle("GET /api/navigation/resolve", http.HandlerFunc(navHandlers.Resolve))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Compression sits inside logging so the log records compressed sizes.
	middlewares := []func(http.Handler) http.Handler{
		Recover(logger),
		Logging(logger),
	}
	if services.Compression {
		middlewares = append(middlewares, Compression(CompressionConfig{
			Level:  services.CompressionLevel,
			Logger: logger,
		}))
	}
	middlewares = append(middlewares, EdgeGate(services.Registry, logger))

	return Chain(mux, middlewares...)
}

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for readiness/liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
