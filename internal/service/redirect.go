package service

import (
	"fmt"
	"net/url"
	"strings"

	domainauth "github.com/plantops/opsgate/internal/domain/auth"
	"github.com/plantops/opsgate/internal/registry"
)

// RedirectType tags why a redirect decision was made.
type RedirectType string

const (
	RedirectLoginRequired    RedirectType = "login_required"
	RedirectPermissionDenied RedirectType = "permission_denied"
	RedirectWorkspaceDefault RedirectType = "workspace_default"
	RedirectReturnTo         RedirectType = "return_to"
)

// ReturnToParam is the query parameter carrying the original destination
// through the login flow.
const ReturnToParam = "returnTo"

// RedirectDecision says whether and where a request should be sent instead
// of its requested target.
type RedirectDecision struct {
	Redirect  bool         `json:"should_redirect"`
	TargetURL string       `json:"target_url,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Type      RedirectType `json:"type,omitempty"`
}

// Allow is the no-redirect decision.
func Allow() RedirectDecision {
	return RedirectDecision{}
}

// RedirectResolver turns (path, auth state, profile, return-to) into a
// redirect decision. Every method is a pure function over the route
// registry; no side effects, no clock.
type RedirectResolver struct {
	registry *registry.Registry
}

// NewRedirectResolver constructs a resolver over the given registry.
func NewRedirectResolver(reg *registry.Registry) *RedirectResolver {
	return &RedirectResolver{registry: reg}
}

// OnLoginSuccess decides where a freshly authenticated user lands. A
// registry-known, active return-to path wins, preserving deep-link intent;
// otherwise the user goes to their workspace page, falling back to the
// default workspace path when the profile names no registered workspace.
func (r *RedirectResolver) OnLoginSuccess(user *domainauth.UserProfile, returnTo string) RedirectDecision {
	if path := normalizeReturnTo(returnTo); path != "" {
		// A disabled route would only bounce off the edge gate.
		if d := r.registry.ByPath(path); d != nil && d.Active {
			return RedirectDecision{
				Redirect:  true,
				TargetURL: path,
				Reason:    "return to original destination",
				Type:      RedirectReturnTo,
			}
		}
	}

	target := registry.DefaultWorkspacePath
	reason := "default workspace"
	if user != nil {
		if d := r.registry.ByWorkspace(user.WorkspaceName); d != nil {
			target = d.Path
			reason = fmt.Sprintf("workspace %s", user.WorkspaceName)
		}
	}
	return RedirectDecision{
		Redirect:  true,
		TargetURL: target,
		Reason:    reason,
		Type:      RedirectWorkspaceDefault,
	}
}

// OnAuthRequired decides whether an unauthenticated request for path must
// detour through login. The original path rides along as the return-to
// parameter.
func (r *RedirectResolver) OnAuthRequired(path string, isAuthenticated bool) RedirectDecision {
	if isAuthenticated || !r.registry.RequiresAuth(path) {
		return Allow()
	}
	return RedirectDecision{
		Redirect:  true,
		TargetURL: registry.LoginPath + "?" + ReturnToParam + "=" + url.QueryEscape(path),
		Reason:    fmt.Sprintf("authentication required for %s", path),
		Type:      RedirectLoginRequired,
	}
}

// OnPermissionDenied always redirects to the denial landing page, tagging
// the reason with the roles the route demands.
func (r *RedirectResolver) OnPermissionDenied(path string, user *domainauth.UserProfile) RedirectDecision {
	reason := fmt.Sprintf("access to %s denied", path)
	if d := r.registry.ByPath(path); d != nil && len(d.RequiredRoles) > 0 {
		held := ""
		if user != nil {
			held = user.RoleTitle
		}
		if held == "" {
			held = "无"
		}
		reason = fmt.Sprintf("access to %s requires one of [%s], current role: %s",
			path, strings.Join(d.RequiredRoles, ", "), held)
	}
	return RedirectDecision{
		Redirect:  true,
		TargetURL: registry.PermissionDeniedPath,
		Reason:    reason,
		Type:      RedirectPermissionDenied,
	}
}

// normalizeReturnTo accepts only local absolute paths, dropping anything
// that could send the user off-site.
func normalizeReturnTo(returnTo string) string {
	if returnTo == "" {
		return ""
	}
	u, err := url.Parse(returnTo)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return ""
	}
	return u.Path
}
