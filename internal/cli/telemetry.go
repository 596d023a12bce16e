package cli

import (
	"context"
	"log/slog"

	"github.com/yousefammmar/zenith-flow/internal/config"
	"github.com/yousefammmar/zenith-flow/internal/telemetry"
)

// startTelemetry installs the OTLP tracer, meter and logger providers when
// telemetry is enabled. It returns the logger to use from then on and a
// shutdown func that flushes every provider it started.
func startTelemetry(ctx context.Context, cfg *config.Config, fallback *slog.Logger, otelLogs bool) (*slog.Logger, func(), error) {
	var shutdowns []func(context.Context) error
	shutdown := func() {
		for i := len(shutdowns) - 1; i >= 0; i-- {
			if err := shutdowns[i](ctx); err != nil {
				fallback.Error("failed to shutdown telemetry provider", slog.Any("error", err))
			}
		}
	}

	if !cfg.Telemetry.Enabled {
		return fallback, shutdown, nil
	}

	t := cfg.Telemetry
	tp, err := telemetry.InitTracerProvider(ctx, t.ServiceName, t.Endpoint, cfg.Environment)
	if err != nil {
		return nil, nil, err
	}
	shutdowns = append(shutdowns, tp.Shutdown)

	mp, err := telemetry.InitMeterProvider(ctx, t.ServiceName, t.Endpoint, cfg.Environment)
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	shutdowns = append(shutdowns, mp.Shutdown)

	if !otelLogs {
		return fallback, shutdown, nil
	}

	// Initialized after the other providers for log-trace correlation
	lp, logger, err := telemetry.InitLoggerProvider(ctx, t.ServiceName, t.Endpoint, cfg.Environment)
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	shutdowns = append(shutdowns, lp.Shutdown)

	return logger, shutdown, nil
}
