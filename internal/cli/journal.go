package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/monad-vault/internal/auth"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage the journal's second lock tier",
}

var journalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set or change the journal passcode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUnlockedApp(cmd, func(ctx context.Context, app *App) error {
			out := cmd.OutOrStdout()

			passcode, err := promptSecret(out, "New journal passcode")
			if err != nil {
				return err
			}
			confirm, err := promptSecret(out, "Repeat journal passcode")
			if err != nil {
				return err
			}
			if passcode != confirm {
				return errors.New("passcodes do not match")
			}

			if err = app.Auth.SetJournalPasscode(ctx, passcode); err != nil {
				return err
			}

			fmt.Fprintln(out, okMark()+" Journal passcode set")
			fmt.Fprintln(out, noteMark()+" Changing the passcode changes the journal key: older journal data needs the passcode it was written under")
			return nil
		})
	},
}

var journalUnlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Verify the journal passcode and unlock the journal tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUnlockedApp(cmd, func(ctx context.Context, app *App) error {
			out := cmd.OutOrStdout()

			passcode, err := promptSecret(out, "Journal passcode")
			if err != nil {
				return err
			}

			err = app.Auth.UnlockJournal(ctx, passcode)
			switch {
			case errors.Is(err, auth.ErrJournalPasscodeNotSet):
				fmt.Fprintln(out, failMark()+" No journal passcode set yet: run vault journal set")
				return err
			case errors.Is(err, auth.ErrInvalidCredentials):
				fmt.Fprintln(out, failMark()+" Incorrect passcode")
				return err
			case err != nil:
				return err
			}

			fmt.Fprintln(out, okMark()+" Journal unlocked")
			return nil
		})
	},
}

func init() {
	journalCmd.AddCommand(journalSetCmd)
	journalCmd.AddCommand(journalUnlockCmd)
}
