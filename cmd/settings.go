package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/app"
	"github.com/snapkit-cli/snapkit/color"
	"github.com/snapkit-cli/snapkit/icon"
	"github.com/snapkit-cli/snapkit/ini"
	"github.com/snapkit-cli/snapkit/style"
	"github.com/snapkit-cli/snapkit/util"
	"github.com/spf13/cobra"
)

func errUnknownSetting(a *app.App, name string) error {
	known := lo.FlatMap(a.Settings.Sections(), func(s *ini.Section, _ int) []string {
		return append([]string{s.Name}, lo.Map(s.Values(), func(v *ini.Value, _ int) string {
			return s.Name + "." + v.Name
		})...)
	})

	return errUnknownDesignation("setting", name, known)
}

// lookupSetting resolves "Section" or "Section.Key".
func lookupSetting(a *app.App, name string) (*ini.Section, *ini.Value) {
	sectionName, valueName, hasValue := strings.Cut(name, ".")

	section, ok := a.Settings.Section(sectionName)
	if !ok {
		handleErr(errUnknownSetting(a, name))
	}

	if !hasValue {
		return section, nil
	}

	value, ok := section.Value(valueName)
	if !ok {
		handleErr(errUnknownSetting(a, name))
	}

	return section, value
}

func completionSettings(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	a := newApp()
	defer a.Close()

	var names []string
	for _, s := range a.Settings.Sections() {
		for _, v := range s.Values() {
			names = append(names, s.Name+"."+v.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change the capture settings file",
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsShowCmd.Flags().BoolP("properties", "p", false, "Leave out descriptions")
	settingsShowCmd.SetOut(os.Stdout)
}

var settingsShowCmd = &cobra.Command{
	Use:   "show [section]",
	Short: "Print the settings as they would be saved",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		onlyProperties := lo.Must(cmd.Flags().GetBool("properties"))

		if len(args) == 0 {
			handleErr(a.Settings.Write(cmd.OutOrStdout(), onlyProperties))
			return
		}

		section, _ := lookupSetting(a, args[0])
		handleErr(section.Write(cmd.OutOrStdout(), onlyProperties))
	},
}

func init() {
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsKeysCmd.SetOut(os.Stdout)
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys [section]",
	Short: "Describe every setting",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		sections := a.Settings.Sections()
		if len(args) > 0 {
			section, _ := lookupSetting(a, args[0])
			sections = []*ini.Section{section}
		}

		width := 80
		if w, _, err := util.TerminalSize(); err == nil && w > 20 {
			width = w
		}

		for i, s := range sections {
			cmd.Println(style.Title(s.Name))
			cmd.Println(indent.String(wordwrap.String(s.Description, width-2), 2))
			cmd.Println()

			for _, v := range s.Values() {
				name := style.Fg(color.Purple)(v.Name)
				kind := style.Fg(color.Blue)(v.Type())
				cmd.Printf("%s %s", name, kind)
				if v.Encrypted {
					cmd.Printf(" %s", icon.Get(icon.Lock))
				}
				cmd.Println()
				cmd.Println(indent.String(style.Faint(wordwrap.String(v.Description, width-4)), 4))
			}

			if i < len(sections)-1 {
				cmd.Println()
			}
		}
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsGetCmd.SetOut(os.Stdout)
}

var settingsGetCmd = &cobra.Command{
	Use:               "get Section.Key",
	Short:             "Print the value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionSettings,
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		_, value := lookupSetting(a, args[0])
		if value == nil {
			handleErr(fmt.Errorf("%s is a section, use %s", args[0], style.Fg(color.Yellow)("settings show "+args[0])))
		}

		cmd.Println(value.String())
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

var settingsSetCmd = &cobra.Command{
	Use:               "set Section.Key value",
	Short:             "Change a setting",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionSettings,
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		_, value := lookupSetting(a, args[0])
		if value == nil {
			handleErr(fmt.Errorf("%s is a section, a key is required", args[0]))
		}

		handleErr(value.Set(args[1]))
		handleErr(a.Save())

		shown := value.String()
		if value.Encrypted {
			shown = strings.Repeat("*", len(shown))
		}

		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(args[0]),
			style.Fg(color.Yellow)(shown),
		)
	},
}

func init() {
	settingsCmd.AddCommand(settingsResetCmd)
}

var settingsResetCmd = &cobra.Command{
	Use:               "reset Section[.Key]",
	Short:             "Restore a section or a single setting to its default",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionSettings,
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		section, value := lookupSetting(a, args[0])
		if value != nil {
			value.Reset()
		} else {
			section.Reset()
		}

		handleErr(a.Save())
		fmt.Printf(
			"%s reset %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(args[0]),
		)
	},
}
