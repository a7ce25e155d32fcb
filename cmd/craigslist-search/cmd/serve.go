package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/craigslist-search/internal/api/handlers"
	mw "github.com/donaldgifford/craigslist-search/internal/api/middleware"
	"github.com/donaldgifford/craigslist-search/internal/config"
	"github.com/donaldgifford/craigslist-search/internal/craigslist"
	"github.com/donaldgifford/craigslist-search/internal/telemetry"
	"github.com/donaldgifford/craigslist-search/pkg/logger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Serves the search engine over HTTP with OpenAPI docs at /docs.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.Install(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, Version)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("flushing traces", "error", err)
		}
	}()

	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}

	e := newServer(cfg, svc, log)

	addr := cfg.Server.Addr()
	log.Info("starting server", "addr", addr, "backend", cfg.Craigslist.Backend)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newServer builds the echo router with middleware, health checks, metrics and the
// huma API operations.
func newServer(cfg *config.Config, svc *craigslist.Service, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(mw.RequestLog(log), mw.Recovery(log), mw.Metrics())

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(svc.Ready))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("craigslist-search API", Version))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(svc))
	handlers.RegisterListingRoutes(api, handlers.NewListingHandler(svc))
	handlers.RegisterReferenceRoutes(api, handlers.NewReferenceHandler(svc))

	return e
}
