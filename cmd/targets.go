package cmd

import (
	"os"

	"github.com/protonix-ai/protonix/internal/chat"
	"github.com/protonix-ai/protonix/internal/cli"
	"github.com/spf13/cobra"
)

// NewTargetsCmd creates a command listing the relay's targets
func NewTargetsCmd(container *cli.Container) *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the targets the relay can answer with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := buildClient(cmd.Context(), container, flags)
			if err != nil {
				return err
			}

			infos, err := cl.lister.Targets(cmd.Context())
			if err != nil {
				container.ThemeMgr.GetCurrentTheme().Error().Printf("Could not list targets: %v\n", err)
				return err
			}

			chat.NewRenderer(container.ThemeMgr.GetCurrentTheme(), cl.catalog, os.Stdout).Targets(infos, "")
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}
