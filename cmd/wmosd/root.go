// Package main provides the CLI entrypoint for wmosd.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wmosd/internal/config"
	"github.com/jmylchreest/wmosd/internal/dbus"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	globalOpts struct {
		verbose    bool
		configPath string
		timeout    time.Duration
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wmosd",
	Short: "Control the wmosd on-screen display daemon",
	Long: `wmosd talks to a running wmosdd daemon over D-Bus.

It can show text in the popup, flash the desktop pager, ask questions
with a modal prompt and run the window resize actions. A few commands
work without a daemon: simulate computes resize results, preview renders
the widgets to a PNG and config manages the configuration file.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/wmosd/wmosd.toml)")
	rootCmd.PersistentFlags().DurationVar(&globalOpts.timeout, "timeout", 10*time.Second,
		"How long to wait for the daemon")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// loadConfig loads the configuration named by --config.
func loadConfig() (*config.DaemonConfig, error) {
	cfg, err := config.LoadDaemonConfig(globalOpts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// withClient connects to the daemon and runs fn within --timeout.
func withClient(fn func(ctx context.Context, c *dbus.Client) error) error {
	return withClientTimeout(globalOpts.timeout, fn)
}

// withClientTimeout is withClient with an explicit limit. Zero waits
// forever.
func withClientTimeout(timeout time.Duration, fn func(ctx context.Context, c *dbus.Client) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	}
	defer cancel()

	c, err := dbus.NewClient()
	if err != nil {
		return err
	}
	running, err := c.Running(ctx)
	if err != nil {
		return err
	}
	if !running {
		return fmt.Errorf("wmosdd is not running (no owner for %s)", dbus.DBusBusName)
	}
	return fn(ctx, c)
}
