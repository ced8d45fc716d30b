package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/plantops/opsgate/config"
	"github.com/plantops/opsgate/internal/adapters/devauth"
	"github.com/plantops/opsgate/internal/adapters/httpverify"
	"github.com/plantops/opsgate/internal/adapters/memstore"
	"github.com/plantops/opsgate/internal/adapters/oidc"
	redisstore "github.com/plantops/opsgate/internal/adapters/redis"
	"github.com/plantops/opsgate/internal/data"
	"github.com/plantops/opsgate/internal/ports"
)

// NewStateStore builds the configured state store: Redis-backed when
// SESSION_USE_REDIS is set, in-process memory otherwise.
func NewStateStore(ctx context.Context, cfg *config.AppConfig) (ports.StateStore, error) {
	if !cfg.Auth.Session.UseRedis {
		return memstore.New(), nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return redisstore.NewStateStore(client, redisstore.Options{
		Prefix: cfg.Auth.Session.StorePrefix,
		TTL:    cfg.Auth.Session.StoreTTL,
	}), nil
}

// NewVerifier builds the identity verifier selected by AUTH_MODE.
func NewVerifier(cfg *config.AppConfig, logger *slog.Logger) (ports.IdentityVerifier, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		if !cfg.IsDev {
			logger.Warn("mock auth mode outside dev mode")
		}
		return devauth.NewVerifier(devauth.Config{
			UserID:        cfg.Auth.DevAuth.UserID,
			Username:      cfg.Auth.DevAuth.Username,
			DisplayName:   cfg.Auth.DevAuth.DisplayName,
			Department:    cfg.Auth.DevAuth.Department,
			WorkspaceName: cfg.Auth.DevAuth.Workspace,
			RoleTitle:     cfg.Auth.DevAuth.RoleTitle,
			Password:      cfg.Auth.DevAuth.Password,
		})
	case config.AuthModeHTTP:
		return httpverify.NewVerifier(httpverify.Config{
			URL:     cfg.Auth.HTTPVerify.URL,
			Timeout: cfg.Auth.HTTPVerify.Timeout,
		})
	case config.AuthModeOAuth:
		return oidc.NewVerifier(oidc.VerifierConfig{
			ClientID:     cfg.Auth.OAuth.ClientID,
			ClientSecret: cfg.Auth.OAuth.ClientSecret,
			Scope:        cfg.Auth.OAuth.Scope,
			DiscoveryURL: cfg.Auth.OAuth.DiscoveryURL,
			Profile: oidc.ProfileMap{
				ID:            cfg.Auth.OAuth.ProfileID,
				Username:      cfg.Auth.OAuth.ProfileUsername,
				DisplayName:   cfg.Auth.OAuth.ProfileName,
				Department:    cfg.Auth.OAuth.ProfileDept,
				WorkspaceName: cfg.Auth.OAuth.ProfileWorkspace,
				RoleTitle:     cfg.Auth.OAuth.ProfileRole,
			},
		})
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}

// NewAuditSink builds the login audit sink when enabled. Returns a nil sink
// (and no error) when auditing is off.
func NewAuditSink(ctx context.Context, cfg *config.AppConfig) (ports.AuditSink, *pgxpool.Pool, error) {
	if !cfg.Auth.AuditEnabled {
		return nil, nil, nil
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.URL())
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres ping: %w", err)
	}

	repo := data.NewLoginAuditRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo, pool, nil
}
