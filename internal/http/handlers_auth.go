package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/plantops/opsgate/internal/domain/auth"
	"github.com/plantops/opsgate/internal/service"
)

// AuthHandlers provides HTTP handlers for login, logout, and session
// introspection on top of the auth state machine.
type AuthHandlers struct {
	Machine  *service.AuthMachine
	Resolver *service.RedirectResolver
	Logger   *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
	ReturnTo   string `json:"returnTo"`
}

// loginResponse mirrors the login outcome plus the resolved landing target.
type loginResponse struct {
	Success  bool                      `json:"success"`
	User     *domainauth.UserProfile   `json:"user,omitempty"`
	Redirect *service.RedirectDecision `json:"redirect,omitempty"`
	Message  string                    `json:"message,omitempty"`
}

// Login handles POST /auth/login. Failed attempts come back as 401 with a
// user-facing message; only malformed requests are 4xx-by-shape.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_credentials",
			Err:     errors.New("email and password are required"),
		})
		return
	}

	outcome := h.Machine.Login(r.Context(), domainauth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	}, req.RememberMe)
	if !outcome.Success {
		WriteJSON(w, http.StatusUnauthorized, loginResponse{Message: outcome.Message})
		return
	}

	decision := h.Resolver.OnLoginSuccess(outcome.User, req.ReturnTo)
	h.logger().InfoContext(r.Context(), "login",
		slog.String("user", outcome.User.Username),
		slog.String("target", decision.TargetURL))
	WriteJSON(w, http.StatusOK, loginResponse{
		Success:  true,
		User:     outcome.User,
		Redirect: &decision,
	})
}

// Logout handles POST /auth/logout. Always succeeds from the caller's view.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Machine.Logout(r.Context())
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// Session handles GET /auth/session. The check itself refreshes the
// session's activity stamp; an expired session reads as unauthenticated.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	if !h.Machine.CheckAuthStatus(r.Context()) {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	state := h.Machine.CurrentState()
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          state.User,
		"expiresAt":     state.Session.ExpiresAt,
	})
}
