package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yousefammmar/zenith-flow/internal/config"
	"github.com/yousefammmar/zenith-flow/internal/httpapi"
	"github.com/yousefammmar/zenith-flow/internal/telemetry"
)

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Long: `Serve projects and tasks as JSON under /api/v1.

Examples:
  zenith serve
  zenith serve --port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides server.port)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Basic logger for startup (before OTel is initialized)
	startupLogger := telemetry.NewJSONLogger(os.Stdout, cfg.Log.Level)
	startupLogger.Info("starting application",
		slog.String("service", cfg.Telemetry.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.Server.Port),
		slog.String("driver", cfg.Database.Driver),
	)

	logger, shutdownTelemetry, err := startTelemetry(ctx, cfg, startupLogger, true)
	if err != nil {
		startupLogger.Error("failed to initialize telemetry", slog.Any("error", err))
		return err
	}
	defer shutdownTelemetry()

	s, err := newStack(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", slog.Any("error", err))
		return err
	}
	defer s.Close()

	h := httpapi.NewHandler(s.actions, s.home, logger, s.metrics)
	server := httpapi.NewServer(":"+cfg.Server.Port, httpapi.NewRouter(h))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.Any("error", err))
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}

	logger.Info("server stopped")
	return nil
}
