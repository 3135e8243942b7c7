package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wmosd/internal/dbus"
)

var statusOpts struct {
	json bool
}

// Status is the JSON form of the status command.
type Status struct {
	Running bool          `json:"running"`
	Prompts []PromptState `json:"prompts"`
}

// PromptState describes one open prompt.
type PromptState struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon runs and which prompts are open",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false,
		"Output JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), globalOpts.timeout)
	defer cancel()

	status := Status{Prompts: []PromptState{}}
	c, err := dbus.NewClient()
	if err != nil {
		return err
	}
	status.Running, err = c.Running(ctx)
	if err != nil {
		return err
	}
	if status.Running {
		entries, err := c.ListPrompts(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			status.Prompts = append(status.Prompts, PromptState{
				ID:      e.ID,
				Message: e.Message,
				Created: e.CreatedAt(),
			})
		}
	}

	if statusOpts.json {
		return json.NewEncoder(os.Stdout).Encode(status)
	}
	writeStatus(os.Stdout, status, time.Now())
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ageStyle    = lipgloss.NewStyle().Width(16)
)

// writeStatus prints status for humans. Ages are relative to now.
func writeStatus(w io.Writer, status Status, now time.Time) {
	if !status.Running {
		fmt.Fprintln(w, headerStyle.Render("wmosdd is not running"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("wmosdd is running, %s open", plural(len(status.Prompts), "prompt"))))
	for _, p := range status.Prompts {
		fmt.Fprintf(w, "  %s  %s  %s\n",
			idStyle.Render(p.ID),
			ageStyle.Render(humanize.RelTime(p.Created, now, "ago", "from now")),
			p.Message)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
