package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/protonix-ai/protonix/internal/chat"
	"github.com/protonix-ai/protonix/internal/cli"
	"github.com/protonix-ai/protonix/internal/dispatch"
	"github.com/spf13/cobra"
)

// NewSendCmd creates a command that dispatches one message and prints the replies
func NewSendCmd(container *cli.Container) *cobra.Command {
	var (
		flags   clientFlags
		enhance bool
	)

	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send one message and print every reply",
		Long: `Send a single message through the relay and wait for all targets to answer.

The command fails only when every addressed target fails.`,
		Example: `  protonix send "@claude @gpt explain CRDTs in two sentences"
  protonix send --enhance "@all write a haiku about Go"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defer container.Logger.Sync()

			message := strings.Join(args, " ")
			if enhance {
				message = dispatch.Enhance(message)
			}

			cl, err := buildClient(ctx, container, flags)
			if err != nil {
				return err
			}

			recorder, closeStore, err := openRecorder(container)
			if err != nil {
				return err
			}
			defer closeStore()

			settings := container.Settings.Client
			session := dispatch.NewSession(settings.StickyComparison)
			d := dispatch.NewDispatcher(cl.relay, cl.catalog, session,
				dispatch.WithSyntax(settings.BroadcastMarker, settings.MentionPrefix),
				dispatch.WithCallTimeout(settings.CallTimeout),
				dispatch.WithLogger(container.Logger),
				dispatch.WithTurnObserver(func(ctx context.Context, b *dispatch.Batch, text string) {
					recorder.Turn(ctx, session, b, text)
				}),
				dispatch.WithObserver(func(e dispatch.Entry) {
					recorder.Settled(ctx, session.ConversationID(), e)
				}),
			)

			renderer := chat.NewRenderer(container.ThemeMgr.GetCurrentTheme(), cl.catalog, os.Stdout)
			_, err = chat.Send(ctx, d, renderer, message)
			return err
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&enhance, "enhance", false, "rewrite the message as a professional prompt before sending")
	return cmd
}
