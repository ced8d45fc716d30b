package httpverify

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

func TestNewVerifier_RequiresURL(t *testing.T) {
	_, err := NewVerifier(Config{})
	require.Error(t, err)
}

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "zhang@plant.cn", req["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"redirectUrl": "/",
			"user": {
				"id": "u-1001",
				"username": "zhang",
				"displayName": "张化验",
				"department": "化验室",
				"workspaceName": "化验室",
				"roleTitle": "化验员"
			}
		}`))
	}))
	defer srv.Close()

	v, err := NewVerifier(Config{URL: srv.URL})
	require.NoError(t, err)

	result, err := v.Verify(context.Background(), ports.VerifyInput{
		Email:    "zhang@plant.cn",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.User)

	// The collaborator speaks camelCase; every profile field must survive
	// the translation onto the snake_case domain type.
	assert.Equal(t, "u-1001", result.User.ID)
	assert.Equal(t, "zhang", result.User.Username)
	assert.Equal(t, "张化验", result.User.DisplayName)
	assert.Equal(t, "化验室", result.User.Department)
	assert.Equal(t, "化验室", result.User.WorkspaceName)
	assert.Equal(t, "化验员", result.User.RoleTitle)
	assert.Equal(t, "active", result.User.Status)
}

func TestVerify_RejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	v, err := NewVerifier(Config{URL: srv.URL})
	require.NoError(t, err)

	result, err := v.Verify(context.Background(), ports.VerifyInput{Email: "x", Password: "y"})
	require.NoError(t, err, "rejection is a verdict, not a transport failure")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestVerify_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	v, err := NewVerifier(Config{URL: srv.URL})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), ports.VerifyInput{Email: "x", Password: "y"})
	require.Error(t, err)
}

func TestVerify_SuccessWithoutUserIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v, err := NewVerifier(Config{URL: srv.URL})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), ports.VerifyInput{Email: "x", Password: "y"})
	require.Error(t, err)
}
