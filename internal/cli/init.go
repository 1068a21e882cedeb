package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the vault and set the master password",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *App) error {
			out := cmd.OutOrStdout()

			hasPassword, err := app.Auth.Initialize(ctx)
			if err != nil {
				return err
			}
			if hasPassword {
				fmt.Fprintln(out, failMark()+" A vault already exists here")
				fmt.Fprintln(out, noteMark()+" Use "+color.YellowString("vault reset")+" to start over (all data is lost)")
				return errors.New("vault already initialized")
			}

			password, err := promptSecret(out, "New master password")
			if err != nil {
				return err
			}
			confirm, err := promptSecret(out, "Repeat master password")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			hint, err := promptLine(bufio.NewReader(cmd.InOrStdin()), out, "Password hint (optional)")
			if err != nil {
				return err
			}

			_, cleanup := startSpinner("Deriving vault key...")
			err = app.Auth.SetPassword(ctx, password, hint)
			cleanup()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, okMark()+" Vault created at "+color.YellowString(app.Cfg.Storage.DataDir))
			fmt.Fprintln(out, noteMark()+" There is no recovery: losing the password loses the data")
			return nil
		})
	},
}
