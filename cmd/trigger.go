// Package cmd implements the command-line interface for eyedrop.
package cmd

import (
	"context"

	"github.com/eyedrop-cli/eyedrop/config"
	"github.com/eyedrop-cli/eyedrop/hub"
	"github.com/eyedrop-cli/eyedrop/ipc"
	"github.com/eyedrop-cli/eyedrop/key"
	"github.com/eyedrop-cli/eyedrop/where"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(triggerCmd)
}

// triggerCmd is what a window manager keybinding runs.
var triggerCmd = &cobra.Command{
	Use:       "trigger <command>",
	Short:     "Run a shortcut command on the running hub",
	Example:   "  bind = CTRL SHIFT, C, exec, eyedrop trigger start-picker",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: hub.Commands,
	Run: func(cmd *cobra.Command, args []string) {
		client := dial()
		defer client.Close()

		handleErr(client.Command(context.Background(), args[0]))
	},
}

// dial connects to the running daemon.
func dial() *ipc.Client {
	client, err := ipc.Dial(where.Socket(), config.Milliseconds(key.IPCTimeoutMs))
	handleErr(err)
	return client
}
