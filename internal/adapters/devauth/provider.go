package devauth

// Package devauth provides a simple, config-driven IdentityVerifier for
// local development. It accepts a single configured password and answers
// with a fixed profile, so the whole control plane can run without the real
// identity collaborator.

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	domainauth "github.com/plantops/opsgate/internal/domain/auth"
	"github.com/plantops/opsgate/internal/ports"
)

// Config controls the dev verifier behavior.
type Config struct {
	UserID        string
	Username      string
	DisplayName   string
	Department    string
	WorkspaceName string
	RoleTitle     string
	// Password is the one accepted password; empty accepts anything.
	Password string
}

// Verifier implements ports.IdentityVerifier for local development.
type Verifier struct {
	profile  domainauth.UserProfile
	password string
}

// NewVerifier constructs a dev verifier from Config.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Username == "" {
		return nil, errors.New("dev auth: Username is required")
	}
	return &Verifier{
		profile: domainauth.UserProfile{
			ID:            cfg.UserID,
			Username:      cfg.Username,
			DisplayName:   cfg.DisplayName,
			Department:    cfg.Department,
			WorkspaceName: cfg.WorkspaceName,
			RoleTitle:     cfg.RoleTitle,
			Status:        "active",
		},
		password: cfg.Password,
	}, nil
}

// Verify accepts any email matching the configured username (or the
// username itself) with the configured password.
func (v *Verifier) Verify(_ context.Context, in ports.VerifyInput) (ports.VerifyResult, error) {
	if in.Email == "" {
		return ports.VerifyResult{Success: false, Message: "邮箱不能为空"}, nil
	}
	local := in.Email
	if i := strings.IndexByte(local, '@'); i >= 0 {
		local = local[:i]
	}
	if local != v.profile.Username {
		return ports.VerifyResult{Success: false, Message: "用户名或密码错误"}, nil
	}
	if v.password != "" &&
		subtle.ConstantTimeCompare([]byte(in.Password), []byte(v.password)) != 1 {
		return ports.VerifyResult{Success: false, Message: "用户名或密码错误"}, nil
	}

	profile := v.profile
	return ports.VerifyResult{
		Success: true,
		User:    &profile,
		// Advisory only; the redirect resolver computes the real target.
		RedirectURL: "/",
	}, nil
}
