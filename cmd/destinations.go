package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/invopop/jsonschema"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/color"
	"github.com/snapkit-cli/snapkit/destination"
	"github.com/snapkit-cli/snapkit/icon"
	"github.com/snapkit-cli/snapkit/processor"
	"github.com/snapkit-cli/snapkit/style"
	"github.com/snapkit-cli/snapkit/util"
	"github.com/spf13/cobra"
)

// listing is the JSON form of a registry item.
type listing struct {
	Designation string `json:"designation"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	Priority    int    `json:"priority"`
	Builtin     bool   `json:"builtin"`
}

func errUnknownDesignation(kind, designation string, known []string) error {
	if len(known) == 0 {
		return fmt.Errorf("unknown %s %s", kind, style.Fg(color.Red)(designation))
	}

	closest := lo.MinBy(known, func(a string, b string) bool {
		return levenshtein.Distance(designation, a) < levenshtein.Distance(designation, b)
	})
	return fmt.Errorf(
		"unknown %s %s, did you mean %s?",
		kind,
		style.Fg(color.Red)(designation),
		style.Fg(color.Yellow)(closest),
	)
}

func completionDestinations(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	a := newApp()
	defer a.Close()
	return a.Destinations.Designations(), cobra.ShellCompDirectiveNoFileComp
}

func completionProcessors(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	a := newApp()
	defer a.Close()
	return a.Processors.Designations(), cobra.ShellCompDirectiveNoFileComp
}

func printListing(cmd *cobra.Command, items []listing, asJson bool) {
	if asJson {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(items))
		return
	}

	width := designationWidth(items)
	for _, item := range items {
		status := lo.Ternary(item.Active, icon.Get(icon.Success), icon.Get(icon.Skip))
		name := style.Fg(color.Purple)(fmt.Sprintf("%-*s", width, item.Designation))
		origin := lo.Ternary(item.Builtin, "", " "+style.Faint("(plugin)"))
		cmd.Printf("%s %s  %s%s\n", status, name, style.Faint(item.Description), origin)
	}
}

// designationWidth is the column width that fits every designation.
func designationWidth(items []listing) int {
	return util.Max(lo.Map(items, func(item listing, _ int) int {
		return utf8.RuneCountInString(item.Designation)
	})...)
}

func filterListing(items []listing, query string) []listing {
	if query == "" {
		return items
	}

	return lo.Filter(items, func(item listing, _ int) bool {
		return fuzzy.MatchNormalizedFold(query, item.Designation) || fuzzy.MatchNormalizedFold(query, item.Description)
	})
}

func init() {
	rootCmd.AddCommand(destinationsCmd)
}

var destinationsCmd = &cobra.Command{
	Use:     "destinations",
	Aliases: []string{"dest"},
	Short:   "Inspect the available destinations",
}

func init() {
	destinationsCmd.AddCommand(destinationsListCmd)

	destinationsListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	destinationsListCmd.Flags().StringP("filter", "f", "", "Show only destinations matching the query")
	destinationsListCmd.SetOut(os.Stdout)
}

var destinationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and plugin destinations",
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		builtin := lo.SliceToMap(a.Destinations.Builtins(), func(d destination.Destination) (string, bool) {
			return d.Designation(), true
		})

		items := lo.Map(a.Destinations.All(), func(d destination.Destination, _ int) listing {
			return listing{
				Designation: d.Designation(),
				Description: d.Description(),
				Active:      d.IsActive(),
				Priority:    d.Priority(),
				Builtin:     builtin[d.Designation()],
			}
		})

		printListing(cmd, filterListing(items, lo.Must(cmd.Flags().GetString("filter"))), lo.Must(cmd.Flags().GetBool("json")))
	},
}

func init() {
	destinationsCmd.AddCommand(destinationsSchemaCmd)
	destinationsSchemaCmd.SetOut(os.Stdout)
}

var destinationsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of export results",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := &jsonschema.Reflector{DoNotReference: true}
		schema := reflector.Reflect(&[]capture.ExportInformation{})
		schema.Title = "snapkit export results"

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}

func init() {
	rootCmd.AddCommand(processorsCmd)
}

var processorsCmd = &cobra.Command{
	Use:     "processors",
	Aliases: []string{"proc"},
	Short:   "Inspect the available processors",
}

func init() {
	processorsCmd.AddCommand(processorsListCmd)

	processorsListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	processorsListCmd.SetOut(os.Stdout)
}

var processorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and plugin processors",
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		builtin := lo.SliceToMap(a.Processors.Builtins(), func(p processor.Processor) (string, bool) {
			return p.Designation(), true
		})

		items := lo.Map(a.Processors.All(), func(p processor.Processor, _ int) listing {
			return listing{
				Designation: p.Designation(),
				Description: p.Description(),
				Active:      p.IsActive(),
				Priority:    p.Priority(),
				Builtin:     builtin[p.Designation()],
			}
		})

		printListing(cmd, items, lo.Must(cmd.Flags().GetBool("json")))
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
	pluginsCmd.SetOut(os.Stdout)
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the loaded plugins",
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		for _, p := range a.Plugins.Plugins() {
			dests, _ := p.Destinations()
			procs, _ := p.Processors()
			cmd.Printf(
				"%s %s %s\n",
				icon.Get(icon.Lua),
				style.Fg(color.Purple)(p.Name()),
				style.Faint(fmt.Sprintf("%d destinations, %d processors", len(dests), len(procs))),
			)
		}
	},
}
