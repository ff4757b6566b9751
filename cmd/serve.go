package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/protonix-ai/protonix/internal/cli"
	"github.com/protonix-ai/protonix/internal/logger"
	"github.com/protonix-ai/protonix/internal/webserver"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the command that runs the chat relay
func NewServeCmd(container *cli.Container) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat relay HTTP server",
		Long: `Start the relay that forwards chat messages to the configured AI providers.

API keys are read from the environment, and from a .env file in the working directory when present.
The PORT variable overrides server.port.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := container.Logger
			defer log.Sync()

			if err := loadDotEnv(); err != nil {
				return err
			}

			settings := container.Settings
			settings.ApplyEnv(os.LookupEnv)
			if port != "" {
				settings.Server.Port = port
			}

			ws, err := webserver.BuildWebserver(settings, os.LookupEnv, log)
			if err != nil {
				return err
			}
			if err := ws.Start(); err != nil {
				return err
			}

			t := container.ThemeMgr.GetCurrentTheme()
			t.Success().Printf("Relay listening on :%s\n", settings.Server.Port)
			t.Subtle().Println("Press Ctrl+C to stop.")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case <-ctx.Done():
				log.Info("Shutdown signal received", nil)
			case err := <-ws.Errors():
				log.Error("Relay server failed", map[string]interface{}{logger.ErrorKey: err.Error()})
				_ = ws.Stop()
				return fmt.Errorf("relay server failed: %w", err)
			}

			if err := ws.Stop(); err != nil {
				return err
			}
			t.Info().Println("Relay stopped.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on, overrides server.port and PORT")
	return cmd
}
