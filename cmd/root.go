// Package cmd implements the command-line interface for eyedrop.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/eyedrop-cli/eyedrop/app"
	"github.com/eyedrop-cli/eyedrop/clipboard"
	"github.com/eyedrop-cli/eyedrop/color"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/config"
	"github.com/eyedrop-cli/eyedrop/constant"
	"github.com/eyedrop-cli/eyedrop/icon"
	"github.com/eyedrop-cli/eyedrop/key"
	"github.com/eyedrop-cli/eyedrop/kv"
	"github.com/eyedrop-cli/eyedrop/log"
	"github.com/eyedrop-cli/eyedrop/sampler"
	"github.com/eyedrop-cli/eyedrop/style"
	"github.com/eyedrop-cli/eyedrop/surface"
	"github.com/eyedrop-cli/eyedrop/tui"
	"github.com/eyedrop-cli/eyedrop/version"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("sampler", "s", "", "Sampler used to pick colors ("+strings.Join(sampler.Modes, ", ")+")")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("sampler", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return sampler.Modes, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PickerSampler, rootCmd.PersistentFlags().Lookup("sampler")))

	rootCmd.PersistentFlags().String("storage", "", "Storage backend for favorites ("+kv.BackendFile+", "+kv.BackendSQLite+")")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("storage", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{kv.BackendFile, kv.BackendSQLite}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.StorageBackend, rootCmd.PersistentFlags().Lookup("storage")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd opens the color view.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Pick colors from the screen, convert them and keep favorites",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Pick colors from the screen, convert them and keep favorites"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		ctx, cancel := signalContext()
		defer cancel()

		alerts := make(chan string, 4)
		link, err := app.Connect(ctx, app.Options{
			TerminalHeld: true,
			Alert: func(text string) {
				select {
				case alerts <- text:
				default:
				}
			},
		})
		handleErr(err)
		defer link.Close()

		s := surface.New(surface.Options{
			Port:         link.Port,
			Clipboard:    clipboard.System{Fallback: os.Stderr},
			InitialColor: colormath.Color(viper.GetString(key.SurfaceInitialColor)),
			CopyOnPick:   viper.GetBool(key.SurfaceCopyOnPick),
			CopyFeedback: config.Milliseconds(key.SurfaceCopyFeedbackMs),
		})

		handleErr(tui.Run(ctx, &tui.Options{
			Surface:       s,
			Notifications: link.Notifications,
			Alerts:        alerts,
			Remote:        link.Remote,
		}))
	},
}

// signalContext is cancelled on the first interrupt or termination signal.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
