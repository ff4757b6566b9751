// Package filesystem lays out the application's directories under the user's home.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/protonix-ai/protonix/internal/config"
)

type PathType string

const (
	configYamlFileName = "config.yaml"
	historyDBFileName  = "chat_history.db"

	AppDirectory    PathType = "app"
	ConfigDirectory PathType = "config"
	ConfigFilePath  PathType = "config_file"
	LogsDirectory   PathType = "logs"
	DataDirectory   PathType = "data"
	ChatHistoryDB   PathType = "chat_history_db"
)

// Filesystem resolves and creates the application paths.
type Filesystem struct {
	appCfg  *config.AppConfig
	homeDir func() (string, error)
}

// NewAppFilesystem creates a new Filesystem instance.
func NewAppFilesystem(appCfg *config.AppConfig) *Filesystem {
	return &Filesystem{
		appCfg:  appCfg,
		homeDir: os.UserHomeDir,
	}
}

// EnsureAllPaths creates every application directory and returns the resolved paths.
// Files (config, history database) are only resolved, their owners create them.
func (s *Filesystem) EnsureAllPaths() (map[PathType]string, error) {
	paths := map[PathType]string{}

	appDir, err := s.ensureAppDirectory()
	if err != nil {
		return paths, err
	}
	paths[AppDirectory] = appDir

	for _, dir := range []struct {
		kind PathType
		name string
	}{
		{ConfigDirectory, "config"},
		{LogsDirectory, "logs"},
		{DataDirectory, "data"},
	} {
		p := filepath.Join(appDir, dir.name)
		if err := os.MkdirAll(p, 0755); err != nil {
			return paths, fmt.Errorf("failed to create %s directory: %w", dir.name, err)
		}
		paths[dir.kind] = p
	}

	paths[ConfigFilePath] = filepath.Join(paths[ConfigDirectory], configYamlFileName)
	paths[ChatHistoryDB] = filepath.Join(paths[DataDirectory], historyDBFileName)

	return paths, nil
}

func (s *Filesystem) ensureAppDirectory() (string, error) {
	homeDir, err := s.homeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	appDir := filepath.Join(homeDir, fmt.Sprintf(".%s", strings.ToLower(s.appCfg.Name)))
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return appDir, nil
}
