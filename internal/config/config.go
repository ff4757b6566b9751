package config

import (
	"regexp"
	"strings"
	"time"
)

const (
	// OpenRouterChatURL is the OpenAI compatible completion endpoint used by every default target.
	OpenRouterChatURL = "https://openrouter.ai/api/v1/chat/completions"

	DefaultPort             = "5000"
	DefaultMaxTokens        = 800
	DefaultTemperature      = 0.4
	DefaultSystemPrompt     = "You are a helpful assistant."
	DefaultReferer          = "https://protonix-ai.onrender.com"
	DefaultTitle            = "Protonix AI"
	DefaultUpstreamTimeout  = 60 * time.Second
	DefaultCallTimeout      = 30 * time.Second
	DefaultRelayURL         = "http://localhost:5000"
	DefaultBroadcastMarker  = "@all"
	DefaultMentionPrefix    = "@"
	DefaultTargetID         = "gpt"
	DefaultHistoryListLimit = 20
)

// TargetIDCharset is the character set target ids are made of. Mentions are
// parsed with the same set, so every valid id can be addressed as @id.
const TargetIDCharset = "0-9A-Za-z_-"

var targetIDPattern = regexp.MustCompile(`^[` + TargetIDCharset + `]+$`)

// ValidTargetID reports whether id only uses TargetIDCharset
func ValidTargetID(id string) bool {
	return targetIDPattern.MatchString(id)
}

// ServerConfig configures the chat relay
type ServerConfig struct {
	Port            string        `yaml:"port"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	DefaultTarget   string        `yaml:"default_target"`
	StrictTargets   bool          `yaml:"strict_targets"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	SystemPrompt    string        `yaml:"system_prompt"`
	MaxTokens       int           `yaml:"max_tokens" validate:"gte=0"`
	Temperature     float64       `yaml:"temperature" validate:"gte=0,lte=2"`
	Referer         string        `yaml:"referer"`
	Title           string        `yaml:"title"`
}

// ClientConfig configures the dispatch client used by the chat and send commands
type ClientConfig struct {
	RelayURL         string        `yaml:"relay_url" validate:"omitempty,url"`
	DefaultTarget    string        `yaml:"default_target"`
	BroadcastMarker  string        `yaml:"broadcast_marker"`
	MentionPrefix    string        `yaml:"mention_prefix"`
	CallTimeout      time.Duration `yaml:"call_timeout"`
	StickyComparison bool          `yaml:"sticky_comparison"`
	History          bool          `yaml:"history"`
	Theme            string        `yaml:"theme"`
}

// TargetConfig describes one addressable provider and model pairing.
// The API key itself is never stored here, only the name of the env var holding it.
type TargetConfig struct {
	ID           string   `yaml:"id" validate:"required,targetid"`
	Name         string   `yaml:"name"`
	Logo         string   `yaml:"logo,omitempty"`
	Accent       string   `yaml:"accent,omitempty"`
	UpstreamURL  string   `yaml:"upstream_url,omitempty" validate:"omitempty,url"`
	Model        string   `yaml:"model" validate:"required"`
	APIKeyEnv    string   `yaml:"api_key_env" validate:"required"`
	SystemPrompt string   `yaml:"system_prompt,omitempty"`
	MaxTokens    int      `yaml:"max_tokens,omitempty" validate:"gte=0"`
	Temperature  *float64 `yaml:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
}

// LogConfig configures the application logger
type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Config represents the main configuration file
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Client  ClientConfig   `yaml:"client"`
	Log     LogConfig      `yaml:"log"`
	Targets []TargetConfig `yaml:"targets" validate:"dive"`
}

func temperature(v float64) *float64 {
	return &v
}

// DefaultTargets returns the catalog the relay ships with
func DefaultTargets() []TargetConfig {
	return []TargetConfig{
		{
			ID:        "gpt",
			Name:      "ChatGPT",
			Logo:      "◎",
			Accent:    "#10a37f",
			Model:     "openai/gpt-4o-2024-08-06",
			APIKeyEnv: "GPT_OR_KEY",
		},
		{
			ID:        "claude",
			Name:      "Claude",
			Logo:      "✺",
			Accent:    "#d97757",
			Model:     "anthropic/claude-3.5-sonnet",
			APIKeyEnv: "CLAUDE_OR_KEY",
		},
		{
			ID:           "gemini",
			Name:         "Gemini",
			Logo:         "✦",
			Accent:       "#4285f4",
			Model:        "google/gemini-2.0-flash-001",
			APIKeyEnv:    "GEMINI_OR_KEY",
			SystemPrompt: "You are Google Gemini. Use your real-time Google Search grounding to give the most up-to-date answers.",
		},
		{
			ID:           "perplexity",
			Name:         "Perplexity",
			Logo:         "⌘",
			Accent:       "#20b2aa",
			Model:        "perplexity/sonar",
			APIKeyEnv:    "PERPLEXITY_OR_KEY",
			SystemPrompt: "You are a real-time search engine. Always search the web for current data. Give current facts with citations.",
		},
		{
			ID:        "deepseek",
			Name:      "DeepSeek",
			Logo:      "◈",
			Accent:    "#4d6df1",
			Model:     "deepseek/deepseek-chat",
			APIKeyEnv: "DEEPSEEK_OR_KEY",
		},
		{
			ID:           "grok",
			Name:         "Grok",
			Logo:         "✕",
			Accent:       "#ffffff",
			Model:        "x-ai/grok-2-1212",
			APIKeyEnv:    "GROQ_API_KEY",
			SystemPrompt: "You are Grok. You are edgy, witty and up to date with social media trends. Answer with attitude and humor.",
			Temperature:  temperature(0.9),
		},
	}
}

// Default returns a complete configuration with every default applied
func Default() Config {
	c := Config{Targets: DefaultTargets()}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero values left by a partial config file
func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.DefaultTarget == "" {
		c.Server.DefaultTarget = DefaultTargetID
	}
	if c.Server.UpstreamTimeout <= 0 {
		c.Server.UpstreamTimeout = DefaultUpstreamTimeout
	}
	if c.Server.SystemPrompt == "" {
		c.Server.SystemPrompt = DefaultSystemPrompt
	}
	if c.Server.MaxTokens == 0 {
		c.Server.MaxTokens = DefaultMaxTokens
	}
	if c.Server.Temperature == 0 {
		c.Server.Temperature = DefaultTemperature
	}
	if c.Server.Referer == "" {
		c.Server.Referer = DefaultReferer
	}
	if c.Server.Title == "" {
		c.Server.Title = DefaultTitle
	}

	if c.Client.RelayURL == "" {
		c.Client.RelayURL = DefaultRelayURL
	}
	if c.Client.DefaultTarget == "" {
		c.Client.DefaultTarget = c.Server.DefaultTarget
	}
	if c.Client.BroadcastMarker == "" {
		c.Client.BroadcastMarker = DefaultBroadcastMarker
	}
	if c.Client.MentionPrefix == "" {
		c.Client.MentionPrefix = DefaultMentionPrefix
	}
	if c.Client.CallTimeout <= 0 {
		c.Client.CallTimeout = DefaultCallTimeout
	}
	if c.Client.Theme == "" {
		c.Client.Theme = "professional"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if len(c.Targets) == 0 {
		c.Targets = DefaultTargets()
	}
	for i := range c.Targets {
		if c.Targets[i].UpstreamURL == "" {
			c.Targets[i].UpstreamURL = OpenRouterChatURL
		}
		if c.Targets[i].Name == "" {
			c.Targets[i].Name = c.Targets[i].ID
		}
	}
}

// Target returns the target with the given id, ignoring case like the relay and the client do
func (c *Config) Target(id string) (TargetConfig, bool) {
	for _, t := range c.Targets {
		if strings.EqualFold(t.ID, id) {
			return t, true
		}
	}
	return TargetConfig{}, false
}

// TargetIDs returns the configured target ids in order
func (c *Config) TargetIDs() []string {
	ids := make([]string, 0, len(c.Targets))
	for _, t := range c.Targets {
		ids = append(ids, t.ID)
	}
	return ids
}
