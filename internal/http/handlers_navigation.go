package httpx

import (
	"net/http"

	"github.com/plantops/opsgate/internal/registry"
	"github.com/plantops/opsgate/internal/service"
)

// NavigationHandlers serves the route table derived endpoints.
type NavigationHandlers struct {
	Registry *registry.Registry
	Machine  *service.AuthMachine
	Resolver *service.RedirectResolver
}

// Menu handles GET /api/navigation/menu. Groups come back in category
// order with hidden and disabled routes already filtered out.
func (h *NavigationHandlers) Menu(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"groups": h.Registry.NavigationMenu(),
	})
}

// Resolve handles GET /api/navigation/resolve?path=<path>. It answers the
// question a client asks before rendering a page: stay, or go where.
func (h *NavigationHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = registry.HomePath
	}

	authenticated := h.Machine.CheckAuthStatus(r.Context())
	decision := h.Resolver.OnAuthRequired(path, authenticated)
	if !decision.Redirect && authenticated && !h.Machine.HasPermission(path) {
		state := h.Machine.CurrentState()
		decision = h.Resolver.OnPermissionDenied(path, state.User)
	}
	WriteJSON(w, http.StatusOK, decision)
}
