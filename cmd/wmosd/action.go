package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wmosd/internal/actions"
	"github.com/jmylchreest/wmosd/internal/dbus"
	"github.com/jmylchreest/wmosd/internal/geom"
)

var simulateOpts struct {
	window    string
	area      string
	obstacles []string
	min       string
	max       string
	base      string
	inc       string
}

var actionCmd = &cobra.Command{
	Use:   "action <name> [option=value...]",
	Short: "Run a resize action on the active window",
	Long: `Run a resize action on the focused window through the daemon.

  wmosd action GrowToEdge direction=east
  wmosd action ShrinkToEdge direction=north
  wmosd action ResizeRelative left=1/4 right=1/4

Run without arguments to list the actions.`,
	RunE: runAction,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <name> [option=value...]",
	Short: "Compute the result of a resize action without a display",
	Long: `Apply a resize action to a described window and print the new
geometry and its size in resize increments.

  wmosd simulate GrowToEdge direction=east \
      --window 400x300+100+100 --area 1920x1050+0+30 \
      --obstacle 600x400+900+50`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(actionCmd)
	rootCmd.AddCommand(simulateCmd)

	f := simulateCmd.Flags()
	f.StringVar(&simulateOpts.window, "window", "400x300+100+100", "Window geometry (WxH+X+Y)")
	f.StringVar(&simulateOpts.area, "area", "1920x1080+0+0", "Work area (WxH+X+Y)")
	f.StringArrayVar(&simulateOpts.obstacles, "obstacle", nil, "Another window (WxH+X+Y, repeatable)")
	f.StringVar(&simulateOpts.min, "min", "", "Minimum size (WxH)")
	f.StringVar(&simulateOpts.max, "max", "", "Maximum size (WxH)")
	f.StringVar(&simulateOpts.base, "base", "", "Base size (WxH)")
	f.StringVar(&simulateOpts.inc, "inc", "", "Resize increment (WxH)")
}

// parseOptions reads option=value arguments.
func parseOptions(args []string) (actions.Options, error) {
	opts := actions.Options{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid option %q: want name=value", arg)
		}
		opts[k] = v
	}
	return opts, nil
}

func runAction(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range actions.DefaultRegistry(logger).Names() {
			fmt.Fprintln(os.Stdout, name)
		}
		return nil
	}

	opts, err := parseOptions(args[1:])
	if err != nil {
		return err
	}
	return withClient(func(ctx context.Context, c *dbus.Client) error {
		return c.RunAction(ctx, args[0], opts)
	})
}

func runSimulate(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions(args[1:])
	if err != nil {
		return err
	}

	win, err := geom.ParseRect(simulateOpts.window)
	if err != nil {
		return err
	}
	area, err := geom.ParseRect(simulateOpts.area)
	if err != nil {
		return err
	}
	screen := actions.StaticScreen{Area: area}
	for _, o := range simulateOpts.obstacles {
		r, err := geom.ParseRect(o)
		if err != nil {
			return err
		}
		screen.Others = append(screen.Others, r)
	}
	hints, err := simulatedHints()
	if err != nil {
		return err
	}

	r, size, err := simulate(args[0], opts, &actions.Window{Rect: win, SizeHints: hints}, screen)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s (%d x %d)\n", r, size.Width, size.Height)
	return nil
}

func simulatedHints() (geom.SizeHints, error) {
	var h geom.SizeHints
	for _, f := range []struct {
		value string
		dst   *geom.Size
	}{
		{simulateOpts.min, &h.Min},
		{simulateOpts.max, &h.Max},
		{simulateOpts.base, &h.Base},
		{simulateOpts.inc, &h.Inc},
	} {
		if f.value == "" {
			continue
		}
		sz, err := geom.ParseSize(f.value)
		if err != nil {
			return h, err
		}
		*f.dst = sz
	}
	h.HasBase = simulateOpts.base != ""
	return h, nil
}

// simulate runs the named action on w and returns its new geometry and
// logical size.
func simulate(name string, opts actions.Options, w *actions.Window, screen actions.Screen) (geom.Rect, geom.Size, error) {
	act, err := actions.DefaultRegistry(logger).New(name, opts)
	if err != nil {
		return geom.Rect{}, geom.Size{}, err
	}
	act.Run(&actions.RunContext{
		Targets: []actions.Client{w},
		Screen:  screen,
		Logger:  logger,
	})
	_, size := w.SizeHints.TryConfigure(w.Rect, w.Rect)
	return w.Rect, size, nil
}
