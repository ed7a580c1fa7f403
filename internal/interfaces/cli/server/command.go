package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/piprapay/ppgateway/internal/infrastructure/migration"
	"github.com/piprapay/ppgateway/internal/interfaces/cli/bootstrap"
	httpServer "github.com/piprapay/ppgateway/internal/interfaces/http"
	"github.com/piprapay/ppgateway/internal/shared/goroutine"
	"github.com/piprapay/ppgateway/internal/shared/version"
)

var (
	flags       bootstrap.Flags
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the payment gateway HTTP server: charge pages, the provider notification endpoint and health/metrics.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&flags.Env, "env", "e", "", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" && flags.Env == "" {
		flags.Env = envVar
	}

	env, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer env.Close()

	cfg, log := env.Config, env.Log

	if err := cfg.Validate(); err != nil {
		log.Errorw("invalid configuration", "error", err)
		return err
	}

	log.Infow("starting server",
		"version", version.String(),
		"mode", cfg.Server.Mode,
		"auto_migrate", autoMigrate,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	manager := migration.NewManager(cfg.Database.Driver, cfg.Database.Database, log)
	if autoMigrate || manager.GetStrategy().GetName() != "goose" {
		if err := manager.Migrate(cmd.Context(), env.DB); err != nil {
			return err
		}
	}

	container, err := httpServer.NewContainer(cfg, env.DB, log)
	if err != nil {
		log.Errorw("failed to build application", "error", err)
		return err
	}
	defer container.Shutdown()
	container.SetupRoutes()

	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           container.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// outbound provider calls may take up to the gateway timeout
		WriteTimeout: cfg.Gateway.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := goroutine.Run(log, "http-listener", func() error {
		log.Infow("server listening", "address", cfg.Server.GetAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
