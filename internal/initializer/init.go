package initializer

import (
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/protonix-ai/protonix/internal/config"
	"github.com/protonix-ai/protonix/internal/logger"
	"github.com/protonix-ai/protonix/internal/theme"
)

// ConfigManager interface for loading/saving configuration
type ConfigManager interface {
	LoadConfig() (config.Config, error)
	SaveConfig(config.Config) error
	ConfigExists() bool
}

// AskFunc asks a single survey prompt. survey.AskOne satisfies it.
type AskFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// Initializer handles the interactive setup process
type Initializer struct {
	Config        config.Config
	IsUpdateMode  bool
	configManager ConfigManager
	log           logger.Logger
	appConfig     *config.AppConfig
	cliTheme      *theme.Manager
	ask           AskFunc
	lookupEnv     func(string) (string, bool)
	out           io.Writer
}

// NewInitializer creates a new initializer with default dependencies
func NewInitializer(log logger.Logger, appCfg *config.AppConfig, themeMgr *theme.Manager, configManager ConfigManager) *Initializer {
	if log == nil {
		log = logger.Discard
	}
	return &Initializer{
		log:           log,
		appConfig:     appCfg,
		configManager: configManager,
		cliTheme:      themeMgr,
		ask:           survey.AskOne,
		lookupEnv:     os.LookupEnv,
		out:           os.Stdout,
	}
}

// WithConfigManager sets a custom config manager
func (i *Initializer) WithConfigManager(cm ConfigManager) *Initializer {
	i.configManager = cm
	return i
}

// WithAsk replaces the prompt function, tests use it to script answers
func (i *Initializer) WithAsk(ask AskFunc) *Initializer {
	i.ask = ask
	return i
}

// WithLookupEnv replaces the environment lookup used to report key status
func (i *Initializer) WithLookupEnv(lookup func(string) (string, bool)) *Initializer {
	i.lookupEnv = lookup
	return i
}

// WithOutput redirects plain output
func (i *Initializer) WithOutput(w io.Writer) *Initializer {
	i.out = w
	return i
}

// Run starts the interactive configuration process
func (i *Initializer) Run() error {
	i.log.Debug("Starting configuration process", nil)

	var err error
	i.IsUpdateMode = i.configManager.ConfigExists()
	i.log.Debug("Resolved configuration mode", map[string]interface{}{"update": i.IsUpdateMode})

	t := i.cliTheme.GetCurrentTheme()
	if i.IsUpdateMode {
		i.Config, err = i.configManager.LoadConfig()
		if err != nil {
			i.log.Error("error loading configuration", map[string]interface{}{logger.ErrorKey: err.Error()})
			return fmt.Errorf("error loading configuration: %w", err)
		}

		t.Primary().Println("🔄 Configuration Update Mode")
		t.Warning().Println("You are about to update your existing configuration. Press Enter to keep current values, or provide new ones.")
	} else {
		i.Config = config.Default()
		t.Primary().Println("🔧 Initial Configuration")
		t.Info().Println("Please configure the relay and the chat client. You can always change the configuration later.")
	}

	fmt.Fprintln(i.out)

	steps := []struct {
		name string
		run  func() error
	}{
		{"server", i.ConfigureServer},
		{"targets", i.ConfigureTargets},
		{"client", i.ConfigureClient},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			i.log.Error("configuration step failed", map[string]interface{}{"step": step.name, logger.ErrorKey: err.Error()})
			return fmt.Errorf("error configuring %s: %w", step.name, err)
		}
	}

	i.Config.ApplyDefaults()
	if err := i.Config.Validate(); err != nil {
		return err
	}

	i.log.Debug("Saving configuration", nil)
	if err := i.configManager.SaveConfig(i.Config); err != nil {
		i.log.Error("error saving configuration", map[string]interface{}{logger.ErrorKey: err.Error()})
		return fmt.Errorf("error saving configuration: %w", err)
	}

	i.log.Debug("Configuration process complete", nil)
	t.Success().Println("\n✅ Configuration updated successfully!")
	i.reportMissingKeys()
	return nil
}

// reportMissingKeys warns about targets whose key variable is not set in this shell
func (i *Initializer) reportMissingKeys() {
	t := i.cliTheme.GetCurrentTheme()
	for _, target := range i.Config.Targets {
		if v, ok := i.lookupEnv(target.APIKeyEnv); ok && v != "" {
			continue
		}
		t.Warning().Printf("%s has no API key yet. Export %s or add it to .env before running 'serve'.\n", target.Name, target.APIKeyEnv)
	}
}
