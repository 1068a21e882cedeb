package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the auth record and abandon the encrypted store",
	Long: `Removes the master password record. Everything encrypted under the old
key becomes permanently unreadable; this is the only remedy for a lost
password or a corrupted auth record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			fmt.Fprintln(cmd.OutOrStdout(), failMark()+" Refusing to reset without --force")
			return errors.New("reset needs --force")
		}

		return withApp(cmd, func(ctx context.Context, app *App) error {
			if _, err := app.Auth.Initialize(ctx); err != nil {
				return err
			}
			if err := app.Auth.Reset(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), okMark()+" Auth record deleted: run vault init to start a new store")
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "confirm losing all encrypted data")
}
