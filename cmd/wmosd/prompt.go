package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wmosd/internal/dbus"
)

var promptOpts struct {
	answers []string
	noWait  bool
	wait    time.Duration
	close   string
}

// errDismissed is returned when a prompt is closed without an answer.
var errDismissed = errors.New("prompt dismissed")

var promptCmd = &cobra.Command{
	Use:   "prompt [message...]",
	Short: "Ask a question with a modal prompt",
	Long: `Open a prompt with one button per answer and print the chosen
answer. The command fails when the prompt is dismissed, so it can be used
in scripts:

  if [ "$(wmosd prompt -a Yes -a No 'Log out?')" = Yes ]; then ...; fi

--no-wait prints the prompt id instead of waiting; --close closes an open
prompt by id.`,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.Flags().StringArrayVarP(&promptOpts.answers, "answer", "a", nil,
		"Answer button (repeatable; default: OK)")
	promptCmd.Flags().BoolVar(&promptOpts.noWait, "no-wait", false,
		"Print the prompt id and return immediately")
	promptCmd.Flags().DurationVar(&promptOpts.wait, "wait", 0,
		"Give up waiting for an answer after this long (default: forever)")
	promptCmd.Flags().StringVar(&promptOpts.close, "close", "",
		"Close the prompt with this id")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	if promptOpts.close != "" {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.ClosePrompt(ctx, promptOpts.close)
		})
	}

	message := strings.Join(args, " ")
	if message == "" {
		return fmt.Errorf("a prompt needs a message")
	}
	answers := promptOpts.answers
	if len(answers) == 0 {
		answers = []string{"OK"}
	}

	if promptOpts.noWait {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			id, err := c.Prompt(ctx, message, answers)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, id)
			return nil
		})
	}

	return withClientTimeout(promptOpts.wait, func(ctx context.Context, c *dbus.Client) error {
		a, err := c.Ask(ctx, message, answers)
		if err != nil {
			return err
		}
		if a.Dismissed() {
			return errDismissed
		}
		fmt.Fprintln(os.Stdout, a.Text)
		return nil
	})
}
