package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	searchTags []string
	tagsChatID string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find chats by title substring and hashtags",
	Long: `Filters the chat registry. Tags are matched case-insensitively against
the hashtag index (any requested tag matches); the query is a
case-insensitive title substring. Both filters combine.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *App) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			results, err := app.Library.SearchChats(ctx, query, searchTags)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), noteMark()+" No matching chats")
				return nil
			}

			for _, d := range results {
				tags, err := app.Index.TagsForChat(ctx, d.ID)
				if err != nil {
					return err
				}
				line := color.YellowString(d.ID) + "  " + d.Title
				if len(tags) > 0 {
					line += "  " + color.CyanString("#"+strings.Join(tags, " #"))
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		})
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List known hashtags",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *App) error {
			var (
				tags []string
				err  error
			)
			if tagsChatID != "" {
				tags, err = app.Index.TagsForChat(ctx, tagsChatID)
			} else {
				tags, err = app.Index.Tags(ctx)
			}
			if err != nil {
				return err
			}

			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), "#"+tag)
			}
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "hashtag filter (repeatable)")
	tagsCmd.Flags().StringVar(&tagsChatID, "chat", "", "limit to one chat's tags")
}
