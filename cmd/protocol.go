// Package cmd implements the command-line interface for eyedrop.
package cmd

import (
	"encoding/json"
	"os"

	"github.com/eyedrop-cli/eyedrop/ipc"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(protocolCmd)
	protocolCmd.AddCommand(protocolSchemaCmd)
	protocolSchemaCmd.SetOut(os.Stdout)
}

// protocolCmd documents the socket protocol for third-party clients.
var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Describe the protocol spoken on the daemon socket",
}

// protocolSchemaCmd prints the JSON schema of a socket frame.
var protocolSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the frames exchanged with the daemon",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		schema := jsonschema.Reflect(&ipc.Frame{})

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		lo.Must0(encoder.Encode(schema))
	},
}
