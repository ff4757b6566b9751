package cmd

import (
	"os"

	"github.com/protonix-ai/protonix/internal/chat"
	"github.com/protonix-ai/protonix/internal/cli"
	"github.com/spf13/cobra"
)

// NewChatCmd creates a new chat command
func NewChatCmd(container *cli.Container) *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Version: container.Config.Version.VersionText(),
		Use:     "chat",
		Short:   "Start an interactive chat session",
		Long: `Begin an interactive chat session against the relay.

Mention targets with @id to ask them directly, or use @all to compare every target side by side.
Type /help inside the session for commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := container.Logger
			defer log.Sync()

			cl, err := buildClient(ctx, container, flags)
			if err != nil {
				return err
			}

			recorder, closeStore, err := openRecorder(container)
			if err != nil {
				return err
			}
			defer closeStore()

			log.Info("Starting chat session", map[string]interface{}{"local": flags.local, "targets": cl.catalog.Len()})

			session := chat.NewChatSession(chat.Options{
				Relay:    cl.relay,
				Lister:   cl.lister,
				Catalog:  cl.catalog,
				Client:   container.Settings.Client,
				Theme:    container.ThemeMgr.GetCurrentTheme(),
				Input:    os.Stdin,
				Output:   os.Stdout,
				Recorder: recorder,
				Logger:   log,
			})
			return session.Start(ctx)
		},
	}

	flags.bind(cmd)
	return cmd
}
