package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/yousefammmar/zenith-flow/internal/config"
	"github.com/yousefammmar/zenith-flow/internal/db"
	"github.com/yousefammmar/zenith-flow/internal/telemetry"
	"github.com/yousefammmar/zenith-flow/internal/ui"
)

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// The terminal belongs to the UI, so logs go to a file
	dataDir, err := db.DataDir()
	if err != nil {
		return err
	}
	logger, logFile, err := telemetry.NewFileLogger(filepath.Join(dataDir, "zenith.log"), cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger, shutdownTelemetry, err := startTelemetry(ctx, cfg, logger, false)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer shutdownTelemetry()

	s, err := newStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("starting ui", slog.String("driver", cfg.Database.Driver), slog.String("theme", cfg.UI.Theme))

	app := ui.NewApp(s.actions, s.home,
		ui.WithSettings(s.db),
		ui.WithLogger(logger),
		ui.WithTheme(cfg.UI.Theme),
	)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}
