package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"imgcache/di"
	"imgcache/rest"
	"imgcache/utils/otel"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server.

Routes:
  GET|HEAD /img/{preset}/{path}   derived image variant
  GET      /health                liveness probe
  GET      /metrics               Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides server.port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	otelShutdown, err := otel.InitProvider(ctx, otel.Config{
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.OTel.Environment,
		OTLPEndpoint:   cfg.OTel.Endpoint,
		Enabled:        cfg.OTel.Enabled,
		SampleRatio:    cfg.OTel.SampleRatio,
	})
	if err != nil {
		log.WarnContext(ctx, "failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelShutdown = func(context.Context) error { return nil }
	}

	container, err := di.NewApplicationComponents(cfg, log)
	if err != nil {
		return err
	}

	e := newServer()
	rest.RegisterRoutes(e, container, cfg, log)

	address := cfg.Address()
	log.InfoContext(ctx, "starting imgcache server",
		"address", address,
		"backend", cfg.Storage.Backend,
		"presets", len(container.Presets.All()),
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server exited properly")
	return nil
}

func newServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout
	return e
}
