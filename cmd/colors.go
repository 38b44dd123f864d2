// Package cmd implements the command-line interface for eyedrop.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/eyedrop-cli/eyedrop/app"
	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/constant"
	"github.com/eyedrop-cli/eyedrop/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// formatFlag registers --format on cmd.
func formatFlag(cmd *cobra.Command) {
	names := lo.Map(colormath.Formats, func(f colormath.Format, _ int) string {
		return string(f)
	})

	cmd.Flags().StringP("format", "f", "", "Print only this format ("+strings.Join(names, ", ")+")")
	lo.Must0(cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveNoFileComp
	}))
}

// printColor writes c in the format chosen by --format, or every format.
func printColor(cmd *cobra.Command, c colormath.Color) {
	if name := lo.Must(cmd.Flags().GetString("format")); name != "" {
		f, ok := colormath.ParseFormat(name).Get()
		if !ok {
			handleErr(fmt.Errorf("unknown format %q", name))
		}
		cmd.Println(colormath.Render(c, f))
		return
	}

	handleErr(renderColor(cmd.OutOrStdout(), c))
}

func renderColor(w io.Writer, c colormath.Color) error {
	t, err := template.New("color").Funcs(map[string]any{
		"faint": style.Faint,
		"bold":  style.Bold,
	}).Parse(constant.ColorTemplate)
	if err != nil {
		return err
	}

	data := map[string]string{
		"Swatch": lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("      "),
	}
	for _, f := range colormath.Formats {
		data[string(f)] = colormath.Render(c, f)
	}

	return t.Execute(w, data)
}

// connect links to the daemon, or to a hub running in this process.
func connect(ctx context.Context) *app.Link {
	link, err := app.Connect(ctx, app.Options{})
	handleErr(err)
	return link
}

// request sends msg to the hub and fails on a negative answer.
func request(ctx context.Context, port bus.Port, msg bus.Message) bus.Response {
	r, err := port.Request(ctx, msg)
	handleErr(err)
	if r.Error != "" {
		handleErr(errors.New(r.Error))
	}
	return r
}

func init() {
	rootCmd.AddCommand(colorCmd)
	formatFlag(colorCmd)
	colorCmd.SetOut(os.Stdout)
}

// colorCmd prints the color currently held by the hub.
var colorCmd = &cobra.Command{
	Use:   "color",
	Short: "Print the current color",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		link := connect(ctx)
		defer link.Close()

		printColor(cmd, request(ctx, link.Port, bus.Message{Kind: bus.GetColor}).Color)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	formatFlag(convertCmd)
	convertCmd.SetOut(os.Stdout)
}

// convertCmd converts a color between notations without touching the hub.
var convertCmd = &cobra.Command{
	Use:     "convert <color>",
	Short:   "Convert a color between hex, rgb and hsl",
	Example: "  eyedrop convert 'hsl(210, 50%, 40%)'\n  eyedrop convert '#336699' -f rgb",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text := strings.Join(args, " ")
		c, ok := colormath.ParseAny(text).Get()
		if !ok {
			handleErr(fmt.Errorf("%q is not a hex, rgb or hsl color", text))
		}

		printColor(cmd, c)
	},
}
