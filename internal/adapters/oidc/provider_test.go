package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/opsgate/internal/ports"
)

// fakeIdP serves discovery, token, and userinfo endpoints from one server.
type fakeIdP struct {
	srv *httptest.Server

	rejectLogin bool
	claims      map[string]any
}

func newFakeIdP(t *testing.T) *fakeIdP {
	t.Helper()
	idp := &fakeIdP{
		claims: map[string]any{
			"sub":                "u-1001",
			"preferred_username": "zhang",
			"name":               "张化验",
			"department":         "化验室",
			"workspace":          "化验室",
			"role_title":         "化验员",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 idp.srv.URL,
			"authorization_endpoint": idp.srv.URL + "/auth",
			"token_endpoint":         idp.srv.URL + "/token",
			"userinfo_endpoint":      idp.srv.URL + "/userinfo",
			"jwks_uri":               idp.srv.URL + "/jwks",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if idp.rejectLogin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(idp.claims)
	})

	idp.srv = httptest.NewServer(mux)
	t.Cleanup(idp.srv.Close)
	return idp
}

func (idp *fakeIdP) verifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(VerifierConfig{
		ClientID:     "opsgate",
		ClientSecret: "secret",
		DiscoveryURL: idp.srv.URL + "/.well-known/openid-configuration",
	})
	require.NoError(t, err)
	return v
}

func TestNewVerifier_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config VerifierConfig
		errMsg string
	}{
		{
			name:   "missing client ID",
			config: VerifierConfig{ClientSecret: "s", DiscoveryURL: "http://example.com"},
			errMsg: "client ID is required",
		},
		{
			name:   "missing client secret",
			config: VerifierConfig{ClientID: "c", DiscoveryURL: "http://example.com"},
			errMsg: "client secret is required",
		},
		{
			name:   "missing discovery URL",
			config: VerifierConfig{ClientID: "c", ClientSecret: "s"},
			errMsg: "discovery URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVerifier(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewVerifier_MalformedProfileExpressionFailsAtConstruction(t *testing.T) {
	idp := newFakeIdP(t)

	_, err := NewVerifier(VerifierConfig{
		ClientID:     "opsgate",
		ClientSecret: "secret",
		DiscoveryURL: idp.srv.URL,
		Profile: ProfileMap{
			ID:       "sub",
			Username: "][invalid",
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile map username")
}

func TestVerify_Success(t *testing.T) {
	idp := newFakeIdP(t)
	v := idp.verifier(t)

	result, err := v.Verify(context.Background(), ports.VerifyInput{
		Email:    "zhang@plant.cn",
		Password: "secret",
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.User)
	assert.Equal(t, "u-1001", result.User.ID)
	assert.Equal(t, "zhang", result.User.Username)
	assert.Equal(t, "化验室", result.User.WorkspaceName)
	assert.Equal(t, "化验员", result.User.RoleTitle)
	assert.Equal(t, "active", result.User.Status)
}

func TestVerify_RejectedCredentials(t *testing.T) {
	idp := newFakeIdP(t)
	idp.rejectLogin = true
	v := idp.verifier(t)

	result, err := v.Verify(context.Background(), ports.VerifyInput{
		Email:    "zhang@plant.cn",
		Password: "wrong",
	})
	require.NoError(t, err, "IdP rejection is a verdict, not a transport failure")
	assert.False(t, result.Success)
	assert.Equal(t, "用户名或密码错误", result.Message)
}

func TestVerify_EmptyCredentials(t *testing.T) {
	idp := newFakeIdP(t)
	v := idp.verifier(t)

	result, err := v.Verify(context.Background(), ports.VerifyInput{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestVerify_MissingStableIDFails(t *testing.T) {
	idp := newFakeIdP(t)
	idp.claims = map[string]any{"preferred_username": "zhang"}
	v := idp.verifier(t)

	// The userinfo response carries no sub claim, so no stable id resolves.
	_, err := v.Verify(context.Background(), ports.VerifyInput{
		Email:    "zhang@plant.cn",
		Password: "secret",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stable user id")
}

func TestCompiledProfileMap_Apply(t *testing.T) {
	compiled, err := compileProfileMap(ProfileMap{
		ID:            "sub",
		Username:      "preferred_username",
		WorkspaceName: "attrs.workspace",
	})
	require.NoError(t, err)

	profile, err := compiled.apply(map[string]any{
		"sub":                "u-9",
		"preferred_username": "li",
		"attrs":              map[string]any{"workspace": "生产部"},
		"role_title":         42,
	})
	require.NoError(t, err)
	assert.Equal(t, "u-9", profile.ID)
	assert.Equal(t, "li", profile.Username)
	assert.Equal(t, "生产部", profile.WorkspaceName, "nested expressions resolve")
	assert.Empty(t, profile.RoleTitle, "unmapped fields stay blank")
}
