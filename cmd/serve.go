// Package cmd implements the command-line interface for eyedrop.
package cmd

import (
	"fmt"
	"os"

	"github.com/eyedrop-cli/eyedrop/app"
	"github.com/eyedrop-cli/eyedrop/color"
	"github.com/eyedrop-cli/eyedrop/icon"
	"github.com/eyedrop-cli/eyedrop/style"
	"github.com/eyedrop-cli/eyedrop/where"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

// serveCmd runs the hub as a daemon that other processes reach over a socket.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the color hub in the background for shortcuts and views",
	Long: `Run the color hub and its picker as a long-lived process.

Views opened with "eyedrop" and commands such as "eyedrop trigger start-picker"
connect to it through a unix socket. Its location is shown by "eyedrop where --socket".`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := app.New(app.Options{
			Alert: func(text string) {
				_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), text)
			},
		})
		handleErr(err)
		defer a.Close()

		a.Start(ctx)

		fmt.Printf(
			"%s listening on %s with sampler %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(where.Socket()),
			style.Fg(color.Yellow)(a.Picker.Sampler()),
		)
		handleErr(a.Serve(ctx))
	},
}
