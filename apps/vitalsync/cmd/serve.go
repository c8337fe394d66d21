package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quatton/vitalsync/pkg/qapi"
	"github.com/quatton/vitalsync/pkg/qapi/config"
	"github.com/quatton/vitalsync/pkg/qapi/routes"
	"github.com/quatton/vitalsync/pkg/qapi/services"
	"github.com/spf13/cobra"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Run the HTTP server",
	Long: `Serves the OAuth login and callback routes, the manual and batch sync
triggers and the OpenAPI docs. Batches are expected to be triggered by an
external cron calling POST /api/sync/batch.`,
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply database migrations before serving")
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.ValidateEnv()
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	cfg.Print(log.Printf)
	logger := newLogger(cfg)

	if serveMigrate {
		if err := migrateUp(ctx, cfg, logger); err != nil {
			return err
		}
	}

	svcs, err := services.NewServices(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if err := svcs.Close(); err != nil {
			logger.Warn("failed to close services", "error", err)
		}
	}()

	api := qapi.NewApi()
	routes.RegisterAPI(api.Api, svcs)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 vitalsync starting on %s\n", srv.Addr)
	log.Printf("📚 OpenAPI docs: %s/docs\n", cfg.BaseURL)
	log.Printf("🔐 Connect WHOOP: %s/api/auth/whoop/login\n", cfg.BaseURL)
	log.Printf("🔁 Redirect URI: %s\n", cfg.RedirectURL())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
