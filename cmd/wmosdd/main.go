// Package main is the entry point for the wmosdd on-screen display daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/wmosd/internal/daemon"
	"github.com/jmylchreest/wmosd/internal/xbackend"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/wmosd/wmosd.toml)")
	themesDir := flag.String("themes", "", "Directory holding theme files (default: ~/.config/wmosd/themes)")
	noDBus := flag.Bool("no-dbus", false, "Do not claim the D-Bus name")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("wmosdd version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := run(logger, daemon.Options{
		ConfigPath:  *configPath,
		ThemesDir:   *themesDir,
		DisableDBus: *noDBus,
	}); err != nil {
		logger.Error("wmosdd failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, opts daemon.Options) error {
	logger.Info("starting wmosdd", "version", version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := xbackend.Connect(logger)
	if err != nil {
		return err
	}

	d, err := daemon.New(backend, opts, logger)
	if err != nil {
		backend.Close()
		return err
	}

	err = d.Run(ctx)
	if errors.Is(err, daemon.ErrEventsClosed) {
		logger.Info("X connection closed")
		return nil
	}
	return err
}
