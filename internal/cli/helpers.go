package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/monad-vault/internal/auth"
)

// startSpinner shows progress during slow operations (key derivation takes a
// noticeable moment on purpose). Suppressed in verbose mode so log lines
// stay readable.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without a colored spinner if it fails.
	_ = s.Color("cyan")

	if !flagVerbose {
		s.Start()
	}

	cleanup := func() {
		s.Stop()
	}
	return s, cleanup
}

func okMark() string   { return color.GreenString("✓") }
func failMark() string { return color.RedString("✗") }
func noteMark() string { return color.CyanString("→") }

// unlockApp prompts for the master password and unlocks the session. On a
// wrong password the stored hint (if any) is shown before the error is
// returned.
func unlockApp(ctx context.Context, cmd *cobra.Command, app *App) error {
	hasPassword, err := app.Auth.Initialize(ctx)
	if err != nil {
		return err
	}
	if !hasPassword {
		fmt.Fprintln(cmd.OutOrStdout(), failMark()+" No vault exists yet")
		fmt.Fprintln(cmd.OutOrStdout(), noteMark()+" Run "+color.YellowString("vault init")+" first")
		return auth.ErrNoPasswordSet
	}

	password, err := promptSecret(cmd.OutOrStdout(), "Master password")
	if err != nil {
		return err
	}

	_, cleanup := startSpinner("Unlocking vault...")
	err = app.Auth.Unlock(ctx, password)
	cleanup()

	if errors.Is(err, auth.ErrInvalidCredentials) {
		fmt.Fprintln(cmd.OutOrStdout(), failMark()+" Incorrect password")
		if hint, hintErr := app.Auth.PasswordHint(ctx); hintErr == nil && hint != "" {
			fmt.Fprintln(cmd.OutOrStdout(), noteMark()+" Hint: "+hint)
		}
		return err
	}
	if err != nil {
		return err
	}

	app.Auth.RecordActivity()
	return nil
}

// withApp builds the application, runs fn, and tears everything down. Every
// command body goes through here.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(cmd.Context(), app)
}

// withUnlockedApp is withApp plus the interactive unlock.
func withUnlockedApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	return withApp(cmd, func(ctx context.Context, app *App) error {
		if err := unlockApp(ctx, cmd, app); err != nil {
			return err
		}
		return fn(ctx, app)
	})
}
