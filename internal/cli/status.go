package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vault configuration and lock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *App) error {
			hasPassword, err := app.Auth.Initialize(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "data dir:       %s\n", app.Cfg.Storage.DataDir)
			fmt.Fprintf(out, "backend:        %s\n", app.Cfg.Storage.Backend)
			fmt.Fprintf(out, "security level: %s\n", app.Cfg.App.SecurityLevel)
			fmt.Fprintf(out, "idle timeout:   %s\n", app.Cfg.EffectiveIdleTimeout())
			if hasPassword {
				fmt.Fprintln(out, "vault:          initialized (locked)")
			} else {
				fmt.Fprintln(out, "vault:          not initialized")
			}

			descriptors, err := app.Registry.All(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "chats:          %d\n", len(descriptors))

			tags, err := app.Index.Tags(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "hashtags:       %d\n", len(tags))
			return nil
		})
	},
}
