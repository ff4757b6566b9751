package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/protonix-ai/protonix/internal/chat"
	"github.com/protonix-ai/protonix/internal/cli"
	"github.com/protonix-ai/protonix/internal/config"
	"github.com/protonix-ai/protonix/internal/dispatch"
	"github.com/protonix-ai/protonix/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates a command to browse saved conversations
func NewHistoryCmd(container *cli.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [conversation-id]",
		Short: "List saved conversations or replay one",
		Long: `Without arguments, lists the most recent conversations saved by 'chat' and 'send'.
With a conversation id, prints that conversation's transcript.

Saving is enabled with client.history in the configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := container.ThemeMgr.GetCurrentTheme()

			if _, err := os.Stat(container.HistoryPath()); errors.Is(err, os.ErrNotExist) {
				t.Subtle().Println("No saved conversations yet.")
				if !container.Settings.Client.History {
					t.Info().Println("Enable client.history in the configuration to start saving them.")
				}
				return nil
			}

			store, err := history.Open(container.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			catalog, err := dispatch.CatalogFromConfig(container.Settings)
			if err != nil {
				return err
			}
			renderer := chat.NewRenderer(t, catalog, os.Stdout)

			if len(args) == 0 {
				convs, err := store.ListConversations(cmd.Context(), limit)
				if err != nil {
					return err
				}
				renderer.Conversations(convs)
				return nil
			}

			entries, err := store.Entries(cmd.Context(), args[0])
			if errors.Is(err, history.ErrConversationNotFound) {
				t.Error().Printf("No conversation with id %s.\n", args[0])
				return fmt.Errorf("conversation %s: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			renderer.Transcript(entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", config.DefaultHistoryListLimit, "number of conversations to list, 0 for all")
	return cmd
}
