package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/protonix-ai/protonix/internal/chat"
	"github.com/protonix-ai/protonix/internal/cli"
	"github.com/protonix-ai/protonix/internal/dispatch"
	"github.com/protonix-ai/protonix/internal/history"
	"github.com/protonix-ai/protonix/internal/logger"
	"github.com/protonix-ai/protonix/internal/webserver"
	"github.com/spf13/cobra"
)

// relayTimeoutSlack keeps the HTTP client deadline behind the per-call timeout,
// so a slow target is reported by the dispatcher rather than the transport.
const relayTimeoutSlack = 5 * time.Second

// loadDotEnv loads ./.env into the process environment; a missing file is not an error
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// clientFlags selects how the dispatch client reaches the relay
type clientFlags struct {
	local    bool
	relayURL string
}

func (f *clientFlags) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.local, "local", false, "run the relay in-process with keys from the environment instead of calling a server")
	cmd.Flags().StringVar(&f.relayURL, "relay-url", "", "relay base URL, overrides client.relay_url")
}

// client is the relay connection shared by the chat, send and targets commands
type client struct {
	relay   dispatch.Relay
	lister  chat.TargetLister
	catalog *dispatch.Catalog
}

func buildClient(ctx context.Context, c *cli.Container, f clientFlags) (*client, error) {
	settings := c.Settings

	if f.local {
		if err := loadDotEnv(); err != nil {
			return nil, err
		}
		svc, err := webserver.BuildRelayService(settings, os.LookupEnv, c.Logger)
		if err != nil {
			return nil, err
		}
		catalog, err := dispatch.CatalogFromConfig(settings)
		if err != nil {
			return nil, err
		}
		local := dispatch.NewLocalRelay(svc)
		return &client{relay: local, lister: local, catalog: catalog}, nil
	}

	baseURL := f.relayURL
	if baseURL == "" {
		baseURL = settings.Client.RelayURL
	}
	remote := dispatch.NewHTTPRelay(baseURL, &http.Client{
		Timeout: settings.Client.CallTimeout + relayTimeoutSlack,
	})

	catalog, err := remoteCatalog(ctx, remote, c)
	if err != nil {
		return nil, err
	}
	return &client{relay: remote, lister: remote, catalog: catalog}, nil
}

// remoteCatalog asks the relay for its targets and falls back to the configured ones when it is unreachable
func remoteCatalog(ctx context.Context, remote *dispatch.HTTPRelay, c *cli.Container) (*dispatch.Catalog, error) {
	infos, err := remote.Targets(ctx)
	if err != nil {
		c.Logger.Warn("could not fetch targets from relay, using configured targets", map[string]interface{}{
			logger.ErrorKey: err.Error(),
		})
		return dispatch.CatalogFromConfig(c.Settings)
	}

	catalog, err := dispatch.CatalogFromInfos(infos, c.Settings.Client.DefaultTarget)
	if err == nil {
		return catalog, nil
	}
	// the relay does not serve our default target, use the one it marks as default
	return dispatch.CatalogFromInfos(infos, "")
}

// openRecorder opens the history store when history is enabled.
// The returned close function is always safe to call.
func openRecorder(c *cli.Container) (*chat.Recorder, func(), error) {
	if !c.Settings.Client.History {
		return chat.NewRecorder(nil, c.Logger), func() {}, nil
	}

	store, err := history.Open(c.HistoryPath())
	if err != nil {
		return nil, nil, err
	}
	return chat.NewRecorder(store, c.Logger), func() {
		if err := store.Close(); err != nil {
			c.Logger.Warn("failed to close history store", map[string]interface{}{logger.ErrorKey: err.Error()})
		}
	}, nil
}
