package main

import (
	"fmt"
	"os"

	"github.com/protonix-ai/protonix/cmd"
	"github.com/protonix-ai/protonix/internal/cli"
)

var version = "0.0.1"
var commit = "none"
var date = "unknown"

func main() {
	container, err := cli.NewContainer(cli.InitOptions{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during initialization: %v\n", err)
		os.Exit(1)
	}

	rootCmd := cmd.NewRootCmd(container)
	rootCmd.AddCommand(
		cmd.NewInitCmd(container),
		cmd.NewConfigCmd(container),
		cmd.NewServeCmd(container),
		cmd.NewChatCmd(container),
		cmd.NewSendCmd(container),
		cmd.NewTargetsCmd(container),
		cmd.NewHistoryCmd(container),
	)

	if err := rootCmd.Execute(); err != nil {
		container.Logger.Error(fmt.Sprintf("%s exited with error", container.Config.Name), map[string]interface{}{"error": err.Error()})
		_ = container.Logger.Sync()
		os.Exit(1)
	}

	_ = container.Logger.Sync()
}
