// Package cmd implements the command-line interface for eyedrop.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/eyedrop-cli/eyedrop/app"
	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/clipboard"
	"github.com/eyedrop-cli/eyedrop/color"
	"github.com/eyedrop-cli/eyedrop/icon"
	"github.com/eyedrop-cli/eyedrop/style"
	"github.com/eyedrop-cli/eyedrop/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pickCmd)
	formatFlag(pickCmd)
	pickCmd.SetOut(os.Stdout)
	pickCmd.Flags().Bool("no-copy", false, "Do not copy the picked color to the clipboard")
	pickCmd.Flags().Duration("timeout", 2*time.Minute, "Give up when nothing is picked in time")
}

var errPickCancelled = errors.New("pick cancelled")

// pickCmd picks one color and prints it.
var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a single color from the screen and print it",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, lo.Must(cmd.Flags().GetDuration("timeout")))
		defer cancelTimeout()

		unavailable := make(chan string, 1)
		link, err := app.Connect(ctx, app.Options{
			Alert: func(text string) {
				select {
				case unavailable <- text:
				default:
				}
			},
		})
		handleErr(err)
		defer link.Close()

		erase := util.PrintErasable(fmt.Sprintf("%s Picking a color...", icon.Get(icon.Picker)))
		handleErr(link.Port.Send(ctx, bus.Message{Kind: bus.StartPicker}))

		var msg bus.Message
		select {
		case msg = <-link.Notifications:
		case text := <-unavailable:
			erase()
			handleErr(errors.New(text))
		case <-ctx.Done():
			erase()
			// leave no sampler running behind
			_ = link.Port.Send(context.Background(), bus.Message{Kind: bus.StopPicker})
			handleErr(fmt.Errorf("%w: %w", errPickCancelled, ctx.Err()))
		}
		erase()

		if msg.Kind != bus.ColorUpdated {
			handleErr(errPickCancelled)
		}

		if !lo.Must(cmd.Flags().GetBool("no-copy")) {
			if err := (clipboard.System{Fallback: os.Stderr}).Write(string(msg.Color)); err == nil {
				defer cmd.PrintErrf("%s copied %s\n", style.Fg(color.Green)(icon.Get(icon.Copied)), msg.Color)
			}
		}

		printColor(cmd, msg.Color)
	},
}
