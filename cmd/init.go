package cmd

import (
	"github.com/protonix-ai/protonix/internal/cli"
	"github.com/protonix-ai/protonix/internal/initializer"
	"github.com/protonix-ai/protonix/internal/logger"
	"github.com/spf13/cobra"
)

// NewInitCmd creates an interactive init command
func NewInitCmd(container *cli.Container) *cobra.Command {
	cmd := &cobra.Command{
		Version: container.Config.Version.VersionText(),
		Use:     "init",
		Short:   "Configure Protonix with a guided setup",
		Long:    `Start an interactive wizard to configure the relay, its targets and the chat client.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := container.Logger
			themeManager := container.ThemeMgr
			defer log.Sync()

			log.Info("Starting initialization", nil)

			ini := initializer.NewInitializer(log, container.Config, themeManager, container.ConfigManager)
			if err := ini.Run(); err != nil {
				log.Error("Initialization failed", map[string]interface{}{logger.ErrorKey: err.Error()})
				themeManager.GetCurrentTheme().Error().Printf("Initialization failed: %v\n", err)
				return err
			}

			log.Info("Initialization complete", map[string]interface{}{"config": container.ConfigManager.Path()})

			themeManager.GetCurrentTheme().Info().Println("\nRun 'protonix serve' to start the relay.")
			themeManager.GetCurrentTheme().Info().Println("Run 'protonix chat' to start an interactive chat session.")
			return nil
		},
	}

	return cmd
}
