package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/app"
	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/color"
	"github.com/snapkit-cli/snapkit/destination"
	"github.com/snapkit-cli/snapkit/icon"
	"github.com/snapkit-cli/snapkit/style"
	"github.com/snapkit-cli/snapkit/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringSliceP("destination", "d", []string{}, "Destinations to export to, in order")
	exportCmd.Flags().StringSliceP("processor", "p", []string{}, "Processors to run before exporting, in order")
	exportCmd.Flags().StringP("title", "t", "", "Title of the capture, defaults to the file name")
	exportCmd.Flags().BoolP("manual", "m", false, "Mark the export as started by the user")
	exportCmd.Flags().Bool("pick", false, "Pick the destinations interactively")
	exportCmd.Flags().BoolP("json", "j", false, "Print the results as JSON")

	lo.Must0(exportCmd.RegisterFlagCompletionFunc("destination", completionDestinations))
	lo.Must0(exportCmd.RegisterFlagCompletionFunc("processor", completionProcessors))

	exportCmd.SetOut(os.Stdout)
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Process a capture and export it to destinations",
	Example: `  snapkit export shot.png
  snapkit export shot.png -d File -d Picasa --title "Bug report"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		surface, details, err := capture.Load(args[0])
		handleErr(err)

		if title := lo.Must(cmd.Flags().GetString("title")); title != "" {
			details.Title = title
		}

		options := app.ExportOptions{
			Destinations: lo.Must(cmd.Flags().GetStringSlice("destination")),
			Processors:   lo.Must(cmd.Flags().GetStringSlice("processor")),
			Manual:       lo.Must(cmd.Flags().GetBool("manual")),
		}

		for _, d := range options.Destinations {
			if a.Destinations.Find(d).IsAbsent() {
				handleErr(errUnknownDesignation("destination", d, a.Destinations.Designations()))
			}
		}

		pick := lo.Must(cmd.Flags().GetBool("pick"))
		if pick || (len(options.Destinations) == 0 && len(a.Core.Destinations) == 0) {
			options.Destinations = pickDestinations(a.Destinations)
			options.Manual = true
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		results, err := a.Export(ctx, surface, details, options)
		handleErr(a.Save())
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(results))
			return
		}

		for _, r := range results {
			printResult(cmd, r)
		}

		if lo.NoneBy(results, func(r capture.ExportInformation) bool { return r.ExportMade }) {
			handleErr(errors.New("nothing was exported"))
		}
	},
}

func printResult(cmd *cobra.Command, r capture.ExportInformation) {
	name := style.Fg(color.Purple)(r.Designation)

	switch {
	case r.ExportMade:
		target := lo.Ternary(r.URI != "", r.URI, r.Path)
		if len(target) > 120 {
			target = target[:117] + "..."
		}
		cmd.Printf("%s %s %s\n", icon.Get(icon.Success), name, style.Fg(color.Yellow)(target))
	case r.ErrorMessage != "":
		cmd.Printf("%s %s %s\n", icon.Get(icon.Fail), name, style.Fg(color.Red)(r.ErrorMessage))
	default:
		cmd.Printf("%s %s %s\n", icon.Get(icon.Skip), name, style.Faint("not available"))
	}
}

// pickDestinations asks which destinations to use. Without a terminal nothing is picked.
func pickDestinations(registry *destination.Registry) []string {
	if !util.IsTerminal() {
		return nil
	}

	active := lo.Filter(registry.All(), func(d destination.Destination, _ int) bool { return d.IsActive() })
	if len(active) == 0 {
		handleErr(errors.New("no destination available"))
	}

	options := lo.Map(active, func(d destination.Destination, _ int) string {
		return fmt.Sprintf("%s (%s)", d.Designation(), d.Description())
	})

	var picked []int
	handleErr(survey.AskOne(&survey.MultiSelect{
		Message: "Export to",
		Options: options,
	}, &picked, survey.WithValidator(survey.MinItems(1))))

	return lo.Map(picked, func(i int, _ int) string { return active[i].Designation() })
}
