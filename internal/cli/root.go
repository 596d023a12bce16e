// Package cli defines the zenith command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yousefammmar/zenith-flow/internal/actions"
	"github.com/yousefammmar/zenith-flow/internal/cache"
	"github.com/yousefammmar/zenith-flow/internal/config"
	"github.com/yousefammmar/zenith-flow/internal/db"
	"github.com/yousefammmar/zenith-flow/internal/home"
	"github.com/yousefammmar/zenith-flow/internal/telemetry"
	"go.opentelemetry.io/otel"
)

// Build information set via ldflags
type Build struct {
	Version string
	Commit  string
	Date    string
}

var configPath string

// NewRootCmd builds the command tree. Running without a subcommand opens the
// terminal interface.
func NewRootCmd(b Build) *cobra.Command {
	root := &cobra.Command{
		Use:           "zenith",
		Short:         "Zenith Flow - projects and tasks in the terminal",
		Version:       b.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runUI,
	}
	root.SetVersionTemplate(fmt.Sprintf("zenith %s (commit: %s, built: %s)\n", b.Version, b.Commit, b.Date))
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/zenith/config.yaml)")

	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd(b))
	return root
}

// Execute runs the root command
func Execute(b Build) {
	if err := NewRootCmd(b).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// stack is the wiring shared by the UI and the server
type stack struct {
	cfg     *config.Config
	db      *db.DB
	cache   *cache.Listing[home.Snapshot]
	actions *actions.Actions
	home    *home.Loader
	metrics *telemetry.Metrics
}

func newStack(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stack, error) {
	database, err := db.New(ctx, db.Options{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The global meter is a no-op unless a meter provider was installed
	metrics, err := telemetry.NewMetrics(otel.Meter(cfg.Telemetry.ServiceName), func() int64 {
		n, err := database.TaskCount(context.Background())
		if err != nil {
			logger.Warn("failed to count tasks", slog.Any("error", err))
		}
		return n
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	listing := cache.NewListing[home.Snapshot]()
	acts := actions.New(database,
		actions.WithRevalidator(listing),
		actions.WithLogger(logger),
		actions.WithMetrics(metrics),
	)
	return &stack{
		cfg:     cfg,
		db:      database,
		cache:   listing,
		actions: acts,
		home:    home.NewLoader(acts, listing, logger),
		metrics: metrics,
	}, nil
}

func (s *stack) Close() error {
	return s.db.Close()
}
