package cmd

import (
	"encoding/json"
	"os"

	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/history"
	"github.com/snapkit-cli/snapkit/icon"
	"github.com/snapkit-cli/snapkit/style"
	"github.com/snapkit-cli/snapkit/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.Flags().IntP("last", "n", 0, "Show only the last n records")
	historyCmd.Flags().Bool("clear", false, "Remove every record")
	historyCmd.MarkFlagsMutuallyExclusive("json", "clear")

	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past exports",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			cmd.Printf("%s history cleared\n", icon.Get(icon.Success))
			return
		}

		records, err := history.Get()
		handleErr(err)

		if last := lo.Must(cmd.Flags().GetInt("last")); last > 0 && last < len(records) {
			records = records[len(records)-last:]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("No exports yet"))
			return
		}

		for _, r := range records {
			cmd.Printf("%s %s ", style.Faint(r.Time.Format("2006-01-02 15:04:05")), style.Bold(r.Title))
			printResult(cmd, r.ExportInformation)
		}

		cmd.Println(style.Faint(util.Quantify(len(records), "record", "records")))
	},
}
