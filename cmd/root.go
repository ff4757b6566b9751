package cmd

import (
	"fmt"

	"github.com/protonix-ai/protonix/internal/cli"
	"github.com/protonix-ai/protonix/internal/theme"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd(container *cli.Container) *cobra.Command {
	rootCmd := &cobra.Command{
		Version: container.Config.Version.VersionText(),
		Use:     "protonix",
		Short:   "Ask one AI model or compare many side by side",
		Long: `Protonix relays chat messages to several AI providers through one endpoint.

Run 'protonix serve' to start the relay and 'protonix chat' to talk to it.
Mention a target with @id, or use @all to compare every target at once.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return container.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			t := container.ThemeMgr.GetCurrentTheme()
			theme.DisplayBanner(t, container.Config)
			fmt.Println("")

			if !container.ConfigManager.ConfigExists() {
				t.Warning().Println("Please run 'protonix init' to configure the relay and its targets.")
				return nil
			}
			t.Info().Println("Run 'protonix serve' to start the relay, or 'protonix chat' to start chatting.")
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&container.Options.ConfigPath, "config", "", "path to the configuration file")
	flags.StringVar(&container.Options.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&container.Options.ConsoleLog, "console-log", false, "also write logs to the console")
	flags.StringVar(&container.Options.Theme, "theme", "", "color theme, overrides the configured one")

	return rootCmd
}
