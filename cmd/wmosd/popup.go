package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wmosd/internal/dbus"
)

var popupOpts struct {
	delay time.Duration
	hide  bool
}

var popupCmd = &cobra.Command{
	Use:   "popup [text...]",
	Short: "Show text in the daemon's popup",
	Long: `Show text in the daemon's popup. The popup hides itself after the
configured hide_after time; --hide hides it immediately.

  wmosd popup "Volume 40%"
  wmosd popup --delay 500ms "Building..."
  wmosd popup --hide`,
	RunE: runPopup,
}

var desktopCmd = &cobra.Command{
	Use:   "desktop <desktop> <count>",
	Short: "Flash the desktop pager",
	Long: `Flash the desktop pager with desktop highlighted out of count.
Desktops are numbered from 1.`,
	Args: cobra.ExactArgs(2),
	RunE: runDesktop,
}

func init() {
	rootCmd.AddCommand(popupCmd)
	rootCmd.AddCommand(desktopCmd)

	popupCmd.Flags().DurationVar(&popupOpts.delay, "delay", 0,
		"Wait this long before showing the popup")
	popupCmd.Flags().BoolVar(&popupOpts.hide, "hide", false,
		"Hide the popup instead of showing text")
}

func runPopup(cmd *cobra.Command, args []string) error {
	if popupOpts.hide {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.HidePopup(ctx)
		})
	}

	text := strings.Join(args, " ")
	if text == "" {
		return fmt.Errorf("nothing to show")
	}
	return withClient(func(ctx context.Context, c *dbus.Client) error {
		return c.ShowPopup(ctx, text, popupOpts.delay)
	})
}

func runDesktop(cmd *cobra.Command, args []string) error {
	desktop, count, err := parseDesktopArgs(args[0], args[1])
	if err != nil {
		return err
	}
	return withClient(func(ctx context.Context, c *dbus.Client) error {
		return c.ShowDesktop(ctx, desktop, count)
	})
}

// parseDesktopArgs turns a 1-based desktop and a count into the 0-based
// wire form.
func parseDesktopArgs(desktopArg, countArg string) (uint32, uint32, error) {
	desktop, err := strconv.ParseUint(desktopArg, 10, 32)
	if err != nil || desktop == 0 {
		return 0, 0, fmt.Errorf("invalid desktop %q", desktopArg)
	}
	count, err := strconv.ParseUint(countArg, 10, 32)
	if err != nil || count == 0 {
		return 0, 0, fmt.Errorf("invalid desktop count %q", countArg)
	}
	if desktop > count {
		return 0, 0, fmt.Errorf("desktop %d out of range 1-%d", desktop, count)
	}
	return uint32(desktop - 1), uint32(count), nil
}
