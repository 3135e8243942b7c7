package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wmosd/internal/config"
	"github.com/jmylchreest/wmosd/internal/display"
	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
	"github.com/jmylchreest/wmosd/internal/theme"
)

var previewOpts struct {
	output  string
	screen  string
	theme   string
	answers []string
	desktop int
	count   int
}

var previewCmd = &cobra.Command{
	Use:   "preview <popup|pager|prompt> [text...]",
	Short: "Render a widget to a PNG without a display",
	Long: `Render the popup, the desktop pager or a prompt with the configured
theme and write the screen to a PNG file, or to stdout with -o -.

  wmosd preview popup "Volume 40%" -o popup.png
  wmosd preview pager --desktop 3 --count 8 -o pager.png
  wmosd preview prompt -a Save -a Discard "Save changes?" -o prompt.png`,
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: []string{"popup", "pager", "prompt"},
	RunE:      runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	f := previewCmd.Flags()
	f.StringVarP(&previewOpts.output, "output", "o", "preview.png", "PNG file to write, - for stdout")
	f.StringVar(&previewOpts.screen, "screen", "1024x768", "Screen size (WxH)")
	f.StringVar(&previewOpts.theme, "theme", "", "Theme name (default: from config)")
	f.StringArrayVarP(&previewOpts.answers, "answer", "a", nil, "Prompt answer (repeatable)")
	f.IntVar(&previewOpts.desktop, "desktop", 1, "Highlighted desktop, from 1")
	f.IntVar(&previewOpts.count, "count", 4, "Number of desktops")
}

// previewScheduler never fires; the preview is written before any timer
// would run.
type previewScheduler struct {
	next display.TimerID
}

func (s *previewScheduler) Schedule(time.Duration, func()) display.TimerID {
	s.next++
	return s.next
}

func (s *previewScheduler) Cancel(display.TimerID) {}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	size, err := geom.ParseSize(previewOpts.screen)
	if err != nil {
		return err
	}

	themeName := previewOpts.theme
	if themeName == "" {
		themeName = cfg.Theme.Name
	}
	canvas, err := renderPreview(cfg, theme.NewLoader(logger).LoadTheme(themeName), size, previewRequest{
		widget:  args[0],
		text:    strings.Join(args[1:], " "),
		answers: previewOpts.answers,
		desktop: previewOpts.desktop,
		count:   previewOpts.count,
	})
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if previewOpts.output != "-" {
		f, err := os.Create(previewOpts.output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", previewOpts.output, err)
		}
		defer f.Close()
		out = f
	}
	return writeSnapshot(out, canvas)
}

func writeSnapshot(out io.Writer, canvas *render.Canvas) error {
	return render.WritePNG(out, canvas.Snapshot())
}

type previewRequest struct {
	widget  string
	text    string
	answers []string
	desktop int // from 1
	count   int
}

// renderPreview shows one widget on an in-memory canvas.
func renderPreview(cfg *config.DaemonConfig, t *theme.Theme, size geom.Size, req previewRequest) (*render.Canvas, error) {
	canvas := render.NewCanvas(size, logger)
	m := display.NewManager(canvas, &previewScheduler{}, nil, nil, cfg, logger)
	m.Reconfigure(t)
	if err := m.Start(); err != nil {
		return nil, err
	}

	text := req.text
	switch req.widget {
	case "popup":
		if text == "" {
			text = "wmosd"
		}
		err := m.ShowTextAfter(text, nil, 0)
		return canvas, err
	case "pager":
		err := m.ShowDesktop(req.desktop-1, req.count, fmt.Sprintf("Desktop %d", req.desktop))
		return canvas, err
	case "prompt":
		if text == "" {
			text = "Are you sure?"
		}
		answers := req.answers
		if len(answers) == 0 {
			answers = []string{"OK"}
		}
		_, err := m.OpenPrompt(text, answers, 0)
		return canvas, err
	}
	return nil, fmt.Errorf("unknown widget %q, want popup, pager or prompt", req.widget)
}
