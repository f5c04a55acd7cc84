// Package cmd implements the snapkit command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/app"
	"github.com/snapkit-cli/snapkit/color"
	"github.com/snapkit-cli/snapkit/constant"
	"github.com/snapkit-cli/snapkit/icon"
	"github.com/snapkit-cli/snapkit/key"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/style"
	"github.com/snapkit-cli/snapkit/util"
	"github.com/snapkit-cli/snapkit/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icons variant (emoji, kaomoji, plain, squares, nerd)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("plugins", true, "Attach plugin destinations and processors")
	lo.Must0(viper.BindPFlag(key.PluginsEnable, rootCmd.PersistentFlags().Lookup("plugins")))

	rootCmd.PersistentFlags().Bool("history", true, "Record exports in the history")
	lo.Must0(viper.BindPFlag(key.ExportHistory, rootCmd.PersistentFlags().Lookup("history")))

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.Snapkit,
	Short: "Process screenshots and export them to files, the clipboard and upload services",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Process screenshots and export them anywhere"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute runs the root command.
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

// newApp assembles the application from the current configuration.
func newApp() *app.App {
	a, err := app.New(app.OptionsFromConfig())
	handleErr(err)
	return a
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
