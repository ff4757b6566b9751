package config

import (
	"fmt"
)

// Repository represents a GitHub repository
type Repository struct {
	Owner string
	Repo  string
}

// AppConfig represents the build-time identity of the application
type AppConfig struct {
	Name       string
	Repository Repository
	Version    Version
}

// Version represents the version information for the application
type Version struct {
	Version string
	Commit  string
	Date    string
}

// VersionText returns the version information as a string
func (v *Version) VersionText() string {
	return fmt.Sprintf("v%s : %s (%s)", v.Version, v.Commit, v.Date)
}

// Option is a function that configures an AppConfig
type Option func(*AppConfig)

// WithVersion sets the build information
func WithVersion(v Version) Option {
	return func(c *AppConfig) {
		c.Version = v
	}
}

// NewAppConfig returns the application identity with the given options applied
func NewAppConfig(opts ...Option) *AppConfig {
	c := &AppConfig{
		Name: "Protonix",
		Repository: Repository{
			Owner: "protonix-ai",
			Repo:  "protonix",
		},
		Version: Version{
			Version: "0.0.1",
			Commit:  "none",
			Date:    "unknown",
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
