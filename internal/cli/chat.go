package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/monad-vault/models"
)

var (
	chatKind  string
	chatTitle string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Manage the chat registry",
}

var chatAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new chat",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUnlockedApp(cmd, func(ctx context.Context, app *App) error {
			switch chatKind {
			case models.ChatKindEveryday, models.ChatKindJournal, models.ChatKindPro:
			default:
				return fmt.Errorf("unknown chat kind %q (want everyday, journal or pro)", chatKind)
			}

			id := chatKind + "-" + uuid.NewString()[:8]
			descriptor := models.ChatDescriptor{
				ID:          id,
				Kind:        chatKind,
				Title:       chatTitle,
				StoragePath: app.ChatDir(id),
			}
			if err := app.Registry.Save(ctx, descriptor); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), okMark()+" Chat registered: "+color.YellowString(id))
			return nil
		})
	},
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered chats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *App) error {
			descriptors, err := app.Registry.All(ctx)
			if err != nil {
				return err
			}
			if len(descriptors) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), noteMark()+" No chats registered yet")
				return nil
			}

			for _, d := range descriptors {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %s\n", color.YellowString(d.ID), d.Kind, d.Title)
			}
			return nil
		})
	},
}

func init() {
	chatAddCmd.Flags().StringVar(&chatKind, "kind", models.ChatKindEveryday, "chat kind: everyday, journal or pro")
	chatAddCmd.Flags().StringVar(&chatTitle, "title", "", "chat title")

	chatCmd.AddCommand(chatAddCmd)
	chatCmd.AddCommand(chatListCmd)
}
