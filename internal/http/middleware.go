package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/plantops/opsgate/internal/registry"
	"github.com/plantops/opsgate/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// infraPrefixes are request prefixes the edge gate never inspects.
var infraPrefixes = []string{"/api/", "/static/", "/_image/"}

// infraSuffixes are asset extensions the edge gate never inspects.
var infraSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico"}

// IsInfraPath reports whether the edge gate skips a path entirely.
func IsInfraPath(path string) bool {
	if path == "/favicon.ico" {
		return true
	}
	for _, p := range infraPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	for _, s := range infraSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// EdgeGate returns the request-time coarse filter. It classifies the request
// path against the route registry: unknown paths pass through untouched,
// disabled routes bounce to home, and every strategy of an active route
// passes. Session and role enforcement stay with the auth state machine;
// the gate holds no session and performs no I/O beyond the registry lookup.
func EdgeGate(reg *registry.Registry, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if IsInfraPath(path) {
				next.ServeHTTP(w, r)
				return
			}

			d := reg.ByPath(path)
			if d == nil {
				// Unknown routes are not blocked at this layer.
				next.ServeHTTP(w, r)
				return
			}
			if !d.Active {
				logger.Info("edge gate: disabled route",
					slog.String("path", path))
				http.Redirect(w, r, registry.HomePath, http.StatusFound)
				return
			}

			// All four strategies pass here. None and Simple need nothing
			// from the edge; ExternalIdentity and Admin are enforced by
			// the client-side state machine, tier two of the design.
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession returns a middleware guarding API routes with the auth
// state machine's central gate. A failed check answers 401; the check
// itself refreshes the session's activity stamp.
func RequireSession(machine *service.AuthMachine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !machine.CheckAuthStatus(r.Context()) {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			state := machine.CurrentState()
			ctx := SetUserInContext(r.Context(), state.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoute returns a middleware enforcing route permissions for a given
// page path through the state machine. Missing permission answers with the
// resolver's denial decision as JSON.
func RequireRoute(machine *service.AuthMachine, resolver *service.RedirectResolver, path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !machine.CheckAuthStatus(r.Context()) {
				decision := resolver.OnAuthRequired(path, false)
				WriteJSON(w, http.StatusUnauthorized, decision)
				return
			}
			if !machine.HasPermission(path) {
				state := machine.CurrentState()
				decision := resolver.OnPermissionDenied(path, state.User)
				WriteJSON(w, http.StatusForbidden, decision)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares right to left, so the first listed runs first.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
