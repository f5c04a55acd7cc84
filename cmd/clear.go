package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/snapkit-cli/snapkit/auth"
	"github.com/snapkit-cli/snapkit/history"
	"github.com/snapkit-cli/snapkit/icon"
	"github.com/snapkit-cli/snapkit/util"
	"github.com/snapkit-cli/snapkit/where"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() error
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), func() error { return util.Delete(where.Cache()) }},
	{"export history", "history", mo.Some("s"), history.Clear},
	{"temporary files", "temp", mo.Some("t"), func() error { return util.Delete(where.Temp()) }},
	{"settings key", "keyring", mo.None[string](), auth.DeleteSettingsKey},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached and temporary files",
	Long: "Remove cached and temporary files.\n" +
		"Clearing the settings key makes encrypted settings unreadable; they fall back to their defaults.",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			handleErr(target.clear())
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), target.name)
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
