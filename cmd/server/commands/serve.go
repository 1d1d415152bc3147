package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/maxviazov/prosante-admin/internal/handler"
	"github.com/maxviazov/prosante-admin/internal/repository"
	"github.com/maxviazov/prosante-admin/internal/repository/migrations"
	"github.com/maxviazov/prosante-admin/internal/repository/postgres"
	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(ctx, cfg.Postgres, &log)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}
	defer repo.Close()

	if cfg.App.AutoMigrate {
		if err := migrations.Run(ctx, repo.Pool(), migrations.Up, log); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	pool := repo.Pool()
	sessions := postgres.NewSessionRepository(pool)
	events := postgres.NewInstallEventRepository(pool)
	client := shopify.NewClient(cfg.Shopify, log)
	admins := service.NewAdminResolver(sessions, client)

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	handler.Register(engine, handler.Deps{
		Pinger:      postgres.NewPinger(pool),
		Auth:        service.NewAuthService(client, postgres.NewTxManager(pool), sessions, events, cfg.Shopify, log),
		Definitions: service.NewDefinitionService(admins, log),
		Pros:        service.NewProService(admins, log),
		Customers:   service.NewCustomerService(admins, log),
		Codes:       service.NewCodeService(admins, log),
		Dashboard:   service.NewDashboardService(admins, log),
		Logger:      log,
		CORS:        cfg.CORS,
		APIKey:      cfg.Shopify.APIKey,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.App.Env).Msg("service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("service stopped")
	return nil
}
