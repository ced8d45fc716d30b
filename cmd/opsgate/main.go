package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/plantops/opsgate/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "starting opsgate",
		"auth_mode", cfg.Auth.Mode,
		"addr", cfg.HTTP.Addr,
		"session_redis", cfg.Auth.Session.UseRedis,
		"audit", cfg.Auth.AuditEnabled)

	store, err := bootstrap.NewStateStore(ctx, &cfg)
	if err != nil {
		return err
	}
	verifier, err := bootstrap.NewVerifier(&cfg, logger)
	if err != nil {
		return err
	}
	audit, pool, err := bootstrap.NewAuditSink(ctx, &cfg)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	services, err := bootstrap.InitServices(ctx, bootstrap.ServiceDeps{
		Store:    store,
		Verifier: verifier,
		Audit:    audit,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	server := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		<-gctx.Done()
		return bootstrap.ShutdownHTTPServer(ctx, server, cfg.HTTP.ShutdownTimeout, logger)
	})

	return g.Wait()
}
