package httpverify

// Package httpverify calls the plant's password-verification collaborator
// over HTTP. The collaborator owns credentials and profiles; this adapter
// only translates its JSON contract onto the IdentityVerifier port.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	domainauth "github.com/plantops/opsgate/internal/domain/auth"
	"github.com/plantops/opsgate/internal/ports"
)

// Config holds configuration for the HTTP verifier.
type Config struct {
	// URL is the collaborator's verification endpoint.
	URL string
	// Timeout bounds each verification call. Defaults to 10s.
	Timeout time.Duration
	// HTTPClient overrides the default client. Optional.
	HTTPClient *http.Client
}

// Verifier implements ports.IdentityVerifier against the collaborator.
type Verifier struct {
	url    string
	client *http.Client
}

// NewVerifier constructs an HTTP verifier from Config.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.URL == "" {
		return nil, errors.New("http verify: URL is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Verifier{url: cfg.URL, client: client}, nil
}

type verifyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type verifyResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	RedirectURL string      `json:"redirectUrl"`
	User        *verifyUser `json:"user"`
}

// verifyUser is the collaborator's camelCase wire shape for the profile. It
// is mapped onto the domain profile, whose JSON tags are snake_case.
type verifyUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	DisplayName   string `json:"displayName"`
	Department    string `json:"department"`
	WorkspaceName string `json:"workspaceName"`
	RoleTitle     string `json:"roleTitle"`
	Status        string `json:"status"`
}

func (u *verifyUser) profile() *domainauth.UserProfile {
	status := u.Status
	if status == "" {
		status = "active"
	}
	return &domainauth.UserProfile{
		ID:            u.ID,
		Username:      u.Username,
		DisplayName:   u.DisplayName,
		Department:    u.Department,
		WorkspaceName: u.WorkspaceName,
		RoleTitle:     u.RoleTitle,
		Status:        status,
	}
}

// Verify posts the credentials to the collaborator. A 2xx answer is decoded
// as the verdict; 401/403 reads as rejected credentials; anything else is a
// transport failure.
func (v *Verifier) Verify(ctx context.Context, in ports.VerifyInput) (ports.VerifyResult, error) {
	body, err := json.Marshal(verifyRequest{
		Email:    in.Email,
		Password: in.Password,
		Remember: in.RememberMe,
	})
	if err != nil {
		return ports.VerifyResult{}, fmt.Errorf("encode verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return ports.VerifyResult{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return ports.VerifyResult{}, fmt.Errorf("verify call: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ports.VerifyResult{Success: false, Message: "用户名或密码错误"}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return ports.VerifyResult{}, fmt.Errorf("verify call: unexpected status %d", resp.StatusCode)
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ports.VerifyResult{}, fmt.Errorf("decode verify response: %w", err)
	}
	if out.Success && out.User == nil {
		return ports.VerifyResult{}, errors.New("verify response claims success without a user")
	}

	result := ports.VerifyResult{
		Success:     out.Success,
		RedirectURL: out.RedirectURL,
		Message:     out.Message,
	}
	if out.User != nil {
		result.User = out.User.profile()
	}
	return result, nil
}
