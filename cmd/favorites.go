// Package cmd implements the command-line interface for eyedrop.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/color"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/icon"
	"github.com/eyedrop-cli/eyedrop/style"
	"github.com/eyedrop-cli/eyedrop/util"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(favoritesCmd)
}

// favoritesCmd is the parent of the favorites subcommands.
var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage saved colors",
}

// parseColorArg accepts a color in any notation.
func parseColorArg(text string) colormath.Color {
	c, ok := colormath.ParseAny(text).Get()
	if !ok {
		handleErr(fmt.Errorf("%q is not a hex, rgb or hsl color", text))
	}
	return c
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesListCmd.Flags().StringP("filter", "F", "", "Show only colors fuzzily matching this text in any notation")
	favoritesListCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	favoritesListCmd.Flags().BoolP("raw", "r", false, "Print only the hex values")
	favoritesListCmd.SetOut(os.Stdout)
}

// favoritesListCmd prints the saved colors in the order they were saved.
var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display the saved colors",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		link := connect(ctx)
		defer link.Close()

		colors := request(ctx, link.Port, bus.Message{Kind: bus.GetFavorites}).Favorites
		if filter := lo.Must(cmd.Flags().GetString("filter")); filter != "" {
			colors = filterColors(colors, filter)
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.Ternary(colors == nil, []colormath.Color{}, colors)))
			return
		}

		if lo.Must(cmd.Flags().GetBool("raw")) {
			for _, c := range colors {
				cmd.Println(c)
			}
			return
		}

		if len(colors) == 0 {
			cmd.Println(style.Faint("no saved colors"))
			return
		}

		cmd.Println(style.New().Bold(true).Foreground(color.HiBlue).Render(util.Quantify(len(colors), "color", "colors")))
		for _, c := range colors {
			cmd.Printf(
				"%s %s  %s\n",
				lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("    "),
				style.Bold(string(c)),
				style.Faint(colormath.Render(c, colormath.FormatRGB)+"  "+colormath.Render(c, colormath.FormatHSL)),
			)
		}
	},
}

// filterColors keeps the colors whose hex, rgb or hsl text fuzzily matches filter.
func filterColors(colors []colormath.Color, filter string) []colormath.Color {
	return lo.Filter(colors, func(c colormath.Color, _ int) bool {
		targets := lo.Map(colormath.Formats, func(f colormath.Format, _ int) string {
			return colormath.Render(c, f)
		})
		return len(fuzzy.FindFold(strings.TrimSpace(filter), targets)) > 0
	})
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd)
}

// favoritesAddCmd saves a color, the current one when none is given.
var favoritesAddCmd = &cobra.Command{
	Use:     "add [color]",
	Short:   "Save a color, the current color by default",
	Example: "  eyedrop favorites add\n  eyedrop favorites add 'rgb(51, 102, 153)'",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		link := connect(ctx)
		defer link.Close()

		var c colormath.Color
		if len(args) == 1 {
			c = parseColorArg(args[0])
		} else {
			c = request(ctx, link.Port, bus.Message{Kind: bus.GetColor}).Color
		}

		request(ctx, link.Port, bus.Message{Kind: bus.AddFavorite, Color: c})
		fmt.Printf("%s saved %s\n", style.Fg(color.Green)(icon.Get(icon.Favorite)), style.Fg(color.Purple)(string(c)))
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesRemoveCmd)
}

// favoritesRemoveCmd forgets a saved color. Without an argument the color is chosen interactively.
var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove [color]",
	Aliases: []string{"rm"},
	Short:   "Forget a saved color",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		link := connect(ctx)
		defer link.Close()

		var c colormath.Color
		if len(args) == 1 {
			c = parseColorArg(args[0])
		} else {
			c = chooseFavorite(ctx, link.Port)
		}

		request(ctx, link.Port, bus.Message{Kind: bus.RemoveFavorite, Color: c})
		fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.NotFavorite)), style.Fg(color.Purple)(string(c)))
	},
}

func chooseFavorite(ctx context.Context, port bus.Port) colormath.Color {
	colors := request(ctx, port, bus.Message{Kind: bus.GetFavorites}).Favorites
	if len(colors) == 0 {
		handleErr(fmt.Errorf("no saved colors"))
	}
	if !util.IsInteractive() {
		handleErr(fmt.Errorf("a color is required when not running in a terminal"))
	}

	options := lo.Map(colors, func(c colormath.Color, _ int) string {
		return string(c)
	})

	var answer string
	handleErr(survey.AskOne(&survey.Select{
		Message: "Color to forget",
		Options: options,
		Description: func(value string, _ int) string {
			return colormath.Render(colormath.Color(value), colormath.FormatRGB)
		},
	}, &answer))

	return colormath.Color(answer)
}
