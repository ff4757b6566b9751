package cli

import (
	"fmt"
	"os"

	"github.com/protonix-ai/protonix/internal/config"
	"github.com/protonix-ai/protonix/internal/filesystem"
	"github.com/protonix-ai/protonix/internal/logger"
	"github.com/protonix-ai/protonix/internal/theme"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.AppConfig
	Filesystem    *filesystem.Filesystem
	Paths         map[filesystem.PathType]string
	Settings      config.Config
	ConfigManager *config.FileManager
	Logger        logger.Logger
	ThemeMgr      *theme.Manager

	// Options is bound to the root command's persistent flags and read by Load
	Options InitOptions
}

// InitOptions contains options for initialization
type InitOptions struct {
	Version string
	Commit  string
	Date    string

	ConfigPath string
	LogLevel   string
	ConsoleLog bool
	Theme      string
}

// NewContainer resolves the application identity and paths.
// Settings, logger and theme are only available after Load.
func NewContainer(opts InitOptions) (*Container, error) {
	if opts.Version == "" {
		return nil, fmt.Errorf("version is required")
	}
	if opts.Commit == "" {
		return nil, fmt.Errorf("commit is required")
	}
	if opts.Date == "" {
		return nil, fmt.Errorf("date is required")
	}

	container := &Container{
		Options: opts,
		Logger:  logger.Discard,
	}
	container.Config = config.NewAppConfig(config.WithVersion(config.Version{
		Version: opts.Version,
		Commit:  opts.Commit,
		Date:    opts.Date,
	}))
	container.ThemeMgr = theme.NewManagerByName(string(theme.Professional), os.Stdout)

	var err error
	container.Filesystem = filesystem.NewAppFilesystem(container.Config)
	container.Paths, err = container.Filesystem.EnsureAllPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to ensure all application paths: %w", err)
	}

	if container.Paths[filesystem.ConfigFilePath] == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	return container, nil
}

// Load reads the configuration file and builds the logger and theme from it and the flag overrides.
// A missing configuration file yields the defaults without writing them, so 'init' can tell a first run apart.
func (c *Container) Load() error {
	path := c.Options.ConfigPath
	if path == "" {
		path = c.Paths[filesystem.ConfigFilePath]
	}
	c.ConfigManager = config.NewFileManager(path)

	if c.ConfigManager.ConfigExists() {
		settings, err := c.ConfigManager.LoadConfig()
		if err != nil {
			return err
		}
		c.Settings = settings
	} else {
		c.Settings = config.Default()
	}

	levelName := c.Options.LogLevel
	if levelName == "" {
		levelName = c.Settings.Log.Level
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return err
	}

	log, err := logger.NewZapLogger(logger.Config{
		LogLevel:   level,
		Directory:  c.Paths[filesystem.LogsDirectory],
		Name:       "protonix",
		UseConsole: c.Options.ConsoleLog || c.Settings.Log.Console,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.Logger = log

	themeName := c.Options.Theme
	if themeName == "" {
		themeName = c.Settings.Client.Theme
	}
	c.ThemeMgr = theme.NewManagerByName(themeName, os.Stdout)

	c.Logger.Debug("Container loaded", map[string]interface{}{
		"config":    path,
		"log_level": string(level),
		"theme":     themeName,
	})
	return nil
}

// HistoryPath returns the location of the conversation history database
func (c *Container) HistoryPath() string {
	return c.Paths[filesystem.ChatHistoryDB]
}
