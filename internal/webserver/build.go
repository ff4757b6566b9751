package webserver

import (
	"fmt"
	"net/http"

	"github.com/protonix-ai/protonix/internal/config"
	"github.com/protonix-ai/protonix/internal/logger"
	"github.com/protonix-ai/protonix/internal/relay"
)

// BuildRelayService wires the provider table and upstream client into a relay service
func BuildRelayService(cfg config.Config, lookup func(string) (string, bool), log logger.Logger) (*relay.Service, error) {
	table, err := relay.NewTable(cfg, lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider table: %w", err)
	}

	for _, t := range table.Targets() {
		if !t.Enabled {
			log.Warn("target has no api key configured", map[string]interface{}{logger.TargetKey: t.ID})
		}
	}

	upstream := relay.NewHTTPUpstream(
		&http.Client{Timeout: cfg.Server.UpstreamTimeout},
		cfg.Server.Referer,
		cfg.Server.Title,
	)

	return relay.NewService(table, upstream, log), nil
}

// BuildWebserver initializes the web server with the provided configuration and dependencies
func BuildWebserver(cfg config.Config, lookup func(string) (string, bool), log logger.Logger) (*WebServer, error) {
	svc, err := BuildRelayService(cfg, lookup, log)
	if err != nil {
		log.Errorf("Failed to create relay service: %v", err)
		return nil, err
	}

	return NewWebServer(
		cfg.Server.Port,
		cfg.Server.AllowedOrigins,
		relay.NewHandler(svc, log),
		log,
	), nil
}
