package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/monad-vault/internal/store"
	"github.com/MKhiriev/monad-vault/models"
)

var (
	saveChatID    string
	saveTitle     string
	saveTags      []string
	saveMessageID string
	saveConvFile  string
)

var saveCmd = &cobra.Command{
	Use:   "save [body...]",
	Short: "Encrypt and save a message to a chat's library",
	Long: `Saves one message. The body comes from the arguments, or from stdin when
no arguments are given. Each save creates a new immutable record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUnlockedApp(cmd, func(ctx context.Context, app *App) error {
			body, err := readBody(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			saved, err := app.Library.SaveMessage(ctx, store.SaveMessageRequest{
				ChatID:    saveChatID,
				Title:     saveTitle,
				Tags:      saveTags,
				Body:      body,
				MessageID: saveMessageID,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), okMark()+" Saved "+color.YellowString(saved.ID))
			return nil
		})
	},
}

// savedConversationFile is the JSON shape accepted by save-conv.
type savedConversationFile struct {
	Title    string               `json:"title"`
	Tags     []string             `json:"tags"`
	Messages []models.ChatMessage `json:"messages"`
}

var saveConvCmd = &cobra.Command{
	Use:   "save-conv",
	Short: "Encrypt and save a full conversation from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUnlockedApp(cmd, func(ctx context.Context, app *App) error {
			data, err := os.ReadFile(saveConvFile)
			if err != nil {
				return fmt.Errorf("read conversation file: %w", err)
			}

			var conv savedConversationFile
			if err = json.Unmarshal(data, &conv); err != nil {
				return fmt.Errorf("parse conversation file: %w", err)
			}
			if len(conv.Messages) == 0 {
				return fmt.Errorf("conversation file %s has no messages", saveConvFile)
			}

			req := store.SaveConversationRequest{
				ChatID:    saveChatID,
				Title:     conv.Title,
				Tags:      append(conv.Tags, saveTags...),
				Messages:  conv.Messages,
				StartedAt: conv.Messages[0].CreatedAt,
				EndedAt:   conv.Messages[len(conv.Messages)-1].CreatedAt,
			}
			if saveTitle != "" {
				req.Title = saveTitle
			}

			saved, err := app.Library.SaveConversation(ctx, req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved conversation %s (%d messages)\n",
				okMark(), color.YellowString(saved.ID), len(saved.Messages))
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{saveCmd, saveConvCmd} {
		c.Flags().StringVar(&saveChatID, "chat", "", "target chat id (required)")
		c.Flags().StringVar(&saveTitle, "title", "", "record title")
		c.Flags().StringSliceVar(&saveTags, "tag", nil, "hashtag for search (repeatable)")
		_ = c.MarkFlagRequired("chat")
	}
	saveCmd.Flags().StringVar(&saveMessageID, "message-id", "", "id of the original chat message")
	saveConvCmd.Flags().StringVar(&saveConvFile, "file", "", "JSON file with the conversation (required)")
	_ = saveConvCmd.MarkFlagRequired("file")
}
