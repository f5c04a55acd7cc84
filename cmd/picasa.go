package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/AlecAivazis/survey/v2"
	"github.com/snapkit-cli/snapkit/color"
	"github.com/snapkit-cli/snapkit/icon"
	"github.com/snapkit-cli/snapkit/key"
	"github.com/snapkit-cli/snapkit/picasa"
	"github.com/snapkit-cli/snapkit/style"
	"github.com/snapkit-cli/snapkit/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(picasaCmd)
}

var picasaCmd = &cobra.Command{
	Use:   "picasa",
	Short: "Manage the Picasa upload account",
}

func init() {
	picasaCmd.AddCommand(picasaAuthCmd)
	picasaAuthCmd.Flags().BoolP("force", "f", false, "Authorize again without asking")
}

var picasaAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize snapkit to upload to Picasa",
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		if a.Uploader.ClientID == "" || a.Uploader.ClientSecret == "" {
			handleErr(fmt.Errorf(
				"client credentials are missing, set %s and %s",
				style.Fg(color.Yellow)(key.PicasaClientID),
				style.Fg(color.Yellow)(key.PicasaClientSecret),
			))
		}

		force, _ := cmd.Flags().GetBool("force")
		if a.Picasa.IsAuthorized() && !force {
			if !util.IsTerminal() {
				fmt.Printf("%s already authorized\n", icon.Get(icon.Skip))
				return
			}

			var again bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: "Already authorized. Authorize again?",
				Default: false,
			}, &again))

			if !again {
				return
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Printf("%s waiting for the browser...\n", icon.Get(icon.Progress))
		err := a.Uploader.Authorize(ctx)
		handleErr(a.Save())

		if errors.Is(err, picasa.ErrAccessDenied) {
			handleErr(errors.New("access was denied in the browser"))
		}
		handleErr(err)

		fmt.Printf("%s authorized %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(a.Picasa.UploadUser))
	},
}

func init() {
	picasaCmd.AddCommand(picasaLogoutCmd)
}

var picasaLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored Picasa tokens",
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.Close()

		if !a.Picasa.IsAuthorized() {
			fmt.Printf("%s not authorized\n", icon.Get(icon.Skip))
			return
		}

		a.Picasa.Logout()
		handleErr(a.Save())
		fmt.Printf("%s logged out\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
