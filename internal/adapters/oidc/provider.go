package oidc

// Package oidc provides an OIDC-backed IdentityVerifier for routes classified
// under the external-identity and admin strategies. Credentials are exchanged
// with the IdP via the resource-owner password grant and the resulting
// identity is mapped onto a UserProfile through configurable JMESPath
// expressions, so differently shaped IdP claim sets need no code changes.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	domainauth "github.com/plantops/opsgate/internal/domain/auth"
	"github.com/plantops/opsgate/internal/ports"
)

// ProfileMap holds JMESPath expressions that select UserProfile fields from
// the merged claim document. Empty expressions leave the field blank.
type ProfileMap struct {
	ID            string
	Username      string
	DisplayName   string
	Department    string
	WorkspaceName string
	RoleTitle     string
}

// DefaultProfileMap matches the claim names the plant IdP emits.
func DefaultProfileMap() ProfileMap {
	return ProfileMap{
		ID:            "sub",
		Username:      "preferred_username",
		DisplayName:   "name",
		Department:    "department",
		WorkspaceName: "workspace",
		RoleTitle:     "role_title",
	}
}

// VerifierConfig holds configuration for the OIDC verifier.
type VerifierConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	Profile      ProfileMap
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// Verifier implements ports.IdentityVerifier against an OIDC provider.
type Verifier struct {
	config       *oauth2.Config
	httpClient   *http.Client
	oidcProvider *gooidc.Provider
	profile      compiledProfileMap
}

type compiledProfileMap struct {
	id            jmespath.JMESPath
	username      jmespath.JMESPath
	displayName   jmespath.JMESPath
	department    jmespath.JMESPath
	workspaceName jmespath.JMESPath
	roleTitle     jmespath.JMESPath
}

// NewVerifier creates a new OIDC verifier. Profile expressions are compiled
// here so a malformed mapping fails at construction, not per request.
func NewVerifier(config VerifierConfig) (*Verifier, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	profile, err := compileProfileMap(config.Profile)
	if err != nil {
		return nil, err
	}

	// Single discovery fetch at construction
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	scope := config.Scope
	if scope == "" {
		scope = "openid profile email"
	}

	return &Verifier{
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       strings.Fields(scope),
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		oidcProvider: op,
		profile:      profile,
	}, nil
}

// Verify exchanges the credentials for a token and maps the userinfo claims
// onto a UserProfile. Rejected credentials come back as a non-success result;
// transport and mapping failures are errors.
func (v *Verifier) Verify(ctx context.Context, in ports.VerifyInput) (ports.VerifyResult, error) {
	if in.Email == "" || in.Password == "" {
		return ports.VerifyResult{Success: false, Message: "邮箱和密码不能为空"}, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	token, err := v.config.PasswordCredentialsToken(ctx, in.Email, in.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			retrieveErr.Response.StatusCode < http.StatusInternalServerError {
			// IdP rejected the credentials; not a transport failure.
			return ports.VerifyResult{Success: false, Message: "用户名或密码错误"}, nil
		}
		return ports.VerifyResult{}, fmt.Errorf("password grant: %w", err)
	}

	ui, err := v.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return ports.VerifyResult{}, fmt.Errorf("fetch user info: %w", err)
	}

	var claims map[string]any
	if claimsErr := ui.Claims(&claims); claimsErr != nil {
		return ports.VerifyResult{}, fmt.Errorf("decode user info: %w", claimsErr)
	}
	if claims == nil {
		claims = map[string]any{}
	}
	if _, ok := claims["sub"]; !ok {
		claims["sub"] = ui.Subject
	}

	user, err := v.profile.apply(claims)
	if err != nil {
		return ports.VerifyResult{}, fmt.Errorf("map profile claims: %w", err)
	}
	if user.ID == "" {
		return ports.VerifyResult{}, errors.New("identity claims missing a stable user id")
	}

	return ports.VerifyResult{Success: true, User: &user}, nil
}

func compileProfileMap(pm ProfileMap) (compiledProfileMap, error) {
	if pm == (ProfileMap{}) {
		pm = DefaultProfileMap()
	}
	var (
		out compiledProfileMap
		err error
	)
	if out.id, err = compileExpr("id", pm.ID); err != nil {
		return out, err
	}
	if out.username, err = compileExpr("username", pm.Username); err != nil {
		return out, err
	}
	if out.displayName, err = compileExpr("display_name", pm.DisplayName); err != nil {
		return out, err
	}
	if out.department, err = compileExpr("department", pm.Department); err != nil {
		return out, err
	}
	if out.workspaceName, err = compileExpr("workspace_name", pm.WorkspaceName); err != nil {
		return out, err
	}
	if out.roleTitle, err = compileExpr("role_title", pm.RoleTitle); err != nil {
		return out, err
	}
	return out, nil
}

func compileExpr(field, expr string) (jmespath.JMESPath, error) {
	if expr == "" {
		return nil, nil
	}
	compiled, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("profile map %s: compile %q: %w", field, expr, err)
	}
	return compiled, nil
}

func (m compiledProfileMap) apply(claims map[string]any) (domainauth.UserProfile, error) {
	profile := domainauth.UserProfile{Status: "active"}

	fields := []struct {
		expr jmespath.JMESPath
		dst  *string
	}{
		{m.id, &profile.ID},
		{m.username, &profile.Username},
		{m.displayName, &profile.DisplayName},
		{m.department, &profile.Department},
		{m.workspaceName, &profile.WorkspaceName},
		{m.roleTitle, &profile.RoleTitle},
	}
	for _, f := range fields {
		if f.expr == nil {
			continue
		}
		val, err := f.expr.Search(claims)
		if err != nil {
			return domainauth.UserProfile{}, err
		}
		if s, ok := val.(string); ok {
			*f.dst = s
		}
	}
	return profile, nil
}
