package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportChatID string

var exportCmd = &cobra.Command{
	Use:   "export <record-id>",
	Short: "Export a saved conversation as plain text",
	Long: `Decrypts a saved conversation and writes a plain-text rendering next to
the chat's encrypted records. The export is plaintext: move it somewhere
safe or delete it when done.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUnlockedApp(cmd, func(ctx context.Context, app *App) error {
			path, err := app.Library.ExportConversation(ctx, exportChatID, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), okMark()+" Exported to "+color.YellowString(path))
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportChatID, "chat", "", "chat id (required)")
	_ = exportCmd.MarkFlagRequired("chat")
}
