package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/color"
	"github.com/snapkit-cli/snapkit/config"
	"github.com/snapkit-cli/snapkit/constant"
	"github.com/snapkit-cli/snapkit/key"
	"github.com/snapkit-cli/snapkit/style"
	"github.com/snapkit-cli/snapkit/where"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Display only environment variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Display only environment variables that are currently undefined")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// secretEnvs are printed masked.
var secretEnvs = []string{key.PicasaClientSecret}

func envName(k string) string {
	return strings.ToUpper(constant.Snapkit + "_" + config.EnvKeyReplacer.Replace(k))
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables snapkit reads",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		secret := lo.SliceToMap(secretEnvs, func(k string) (string, bool) { return envName(k), true })
		envs := append(lo.Map(config.EnvExposed, func(k string, _ int) string { return envName(k) }), where.EnvConfigPath)
		slices.Sort(envs)

		for _, env := range envs {
			value, present := os.LookupEnv(env)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			switch {
			case !present:
				cmd.Println(style.Fg(color.Red)("unset"))
			case secret[env]:
				cmd.Println(style.Fg(color.Green)(strings.Repeat("*", len(value))))
			default:
				cmd.Println(style.Fg(color.Green)(value))
			}
		}
	},
}
