package cmd

import (
	"fmt"
	"os"

	"github.com/protonix-ai/protonix/internal/cli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates a config command
func NewConfigCmd(container *cli.Container) *cobra.Command {
	cfgCmd := &cobra.Command{
		Version: container.Config.Version.VersionText(),
		Use:     "config",
		Short:   "Manage Protonix configuration",
		Long:    `Commands to manage and view your Protonix configuration.`,
	}

	cfgCmd.AddCommand(
		NewConfigPreviewCmd(container),
		NewConfigPathCmd(container),
	)
	return cfgCmd
}

// NewConfigPreviewCmd creates a command to preview the effective configuration
func NewConfigPreviewCmd(container *cli.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Preview the effective configuration",
		Long: `Display the configuration with defaults applied.

API keys are never part of the file, only the names of the variables holding them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := container.ThemeMgr.GetCurrentTheme()
			configPath := container.ConfigManager.Path()

			data, err := yaml.Marshal(container.Settings)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			t.Primary().Println("\n📄 Configuration File")
			if container.ConfigManager.ConfigExists() {
				t.Subtle().Printf("Located at: %s\n\n", configPath)
			} else {
				t.Warning().Printf("%s does not exist yet, showing defaults. Run 'protonix init' to create it.\n\n", configPath)
			}

			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

// NewConfigPathCmd prints the configuration file location
func NewConfigPathCmd(container *cli.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(container.ConfigManager.Path())
		},
	}
}
