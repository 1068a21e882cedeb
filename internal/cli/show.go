package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/monad-vault/internal/store"
)

var (
	showChatID string
	showAsConv bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved record ids in a chat",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *App) error {
			ids, err := app.Library.ListRecordIDs(ctx, showChatID)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), noteMark()+" Nothing saved in this chat yet")
				return nil
			}

			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <record-id>",
	Short: "Decrypt and print one saved record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUnlockedApp(cmd, func(ctx context.Context, app *App) error {
			recordID := args[0]
			out := cmd.OutOrStdout()

			if showAsConv {
				conv, err := app.Library.LoadConversation(ctx, showChatID, recordID)
				if err != nil {
					return err
				}
				fmt.Fprint(out, store.RenderConversationText(conv))
				return nil
			}

			msg, err := app.Library.LoadMessage(ctx, showChatID, recordID)
			if errors.Is(err, store.ErrCorruptData) {
				// Records of both shapes share a folder; retry as a
				// conversation before giving up.
				conv, convErr := app.Library.LoadConversation(ctx, showChatID, recordID)
				if convErr == nil {
					fmt.Fprint(out, store.RenderConversationText(conv))
					return nil
				}
				return err
			}
			if err != nil {
				return err
			}

			if msg.Title != "" {
				fmt.Fprintln(out, color.YellowString(msg.Title))
			}
			if len(msg.Tags) > 0 {
				fmt.Fprintf(out, "tags: %v\n", msg.Tags)
			}
			fmt.Fprintln(out, msg.Body)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{listCmd, showCmd} {
		c.Flags().StringVar(&showChatID, "chat", "", "chat id (required)")
		_ = c.MarkFlagRequired("chat")
	}
	showCmd.Flags().BoolVar(&showAsConv, "conv", false, "treat the record as a conversation")
}
