package relay

import (
	"fmt"
	"strings"

	"github.com/protonix-ai/protonix/internal/config"
)

// Secret holds an API key. It never prints its value.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

// GoString keeps %#v from leaking the key as well
func (s Secret) GoString() string {
	return s.String()
}

// Empty reports whether no usable key is set
func (s Secret) Empty() bool {
	return strings.TrimSpace(string(s)) == ""
}

func (s Secret) value() string {
	return string(s)
}

// SamplingParams are forwarded with every upstream request
type SamplingParams struct {
	MaxTokens   int
	Temperature float64
}

// ProviderConfig is the resolved, immutable configuration of one target
type ProviderConfig struct {
	TargetID     string
	Name         string
	Logo         string
	Accent       string
	UpstreamURL  string
	Model        string
	APIKey       Secret
	SystemPrompt string
	Sampling     SamplingParams
}

// Table maps target ids to provider configs. It is read-only after NewTable returns.
type Table struct {
	providers     map[string]ProviderConfig
	order         []string
	defaultTarget string
	strict        bool
}

// NewTable builds the table from the configuration, reading each target's key through lookup
func NewTable(cfg config.Config, lookup func(string) (string, bool)) (*Table, error) {
	t := &Table{
		providers:     make(map[string]ProviderConfig, len(cfg.Targets)),
		order:         make([]string, 0, len(cfg.Targets)),
		defaultTarget: strings.ToLower(cfg.Server.DefaultTarget),
		strict:        cfg.Server.StrictTargets,
	}

	for _, tc := range cfg.Targets {
		id := strings.ToLower(tc.ID)
		if _, dup := t.providers[id]; dup {
			return nil, fmt.Errorf("duplicate target id %q", tc.ID)
		}

		key, _ := lookup(tc.APIKeyEnv)

		p := ProviderConfig{
			TargetID:     id,
			Name:         tc.Name,
			Logo:         tc.Logo,
			Accent:       tc.Accent,
			UpstreamURL:  tc.UpstreamURL,
			Model:        tc.Model,
			APIKey:       Secret(key),
			SystemPrompt: tc.SystemPrompt,
			Sampling: SamplingParams{
				MaxTokens:   tc.MaxTokens,
				Temperature: cfg.Server.Temperature,
			},
		}
		if p.UpstreamURL == "" {
			p.UpstreamURL = config.OpenRouterChatURL
		}
		if p.SystemPrompt == "" {
			p.SystemPrompt = cfg.Server.SystemPrompt
		}
		if p.Sampling.MaxTokens == 0 {
			p.Sampling.MaxTokens = cfg.Server.MaxTokens
		}
		if tc.Temperature != nil {
			p.Sampling.Temperature = *tc.Temperature
		}

		t.providers[id] = p
		t.order = append(t.order, id)
	}

	if _, ok := t.providers[t.defaultTarget]; !ok {
		return nil, fmt.Errorf("default target %q is not configured", cfg.Server.DefaultTarget)
	}

	return t, nil
}

// Resolve returns the provider for targetID. Unknown or empty ids fall back to the
// default target unless the table is strict, in which case a configuration error is returned.
func (t *Table) Resolve(targetID string) (ProviderConfig, bool, error) {
	id := strings.ToLower(strings.TrimSpace(targetID))
	if p, ok := t.providers[id]; ok {
		return p, false, nil
	}

	if t.strict {
		return ProviderConfig{}, false, newError(KindConfiguration,
			fmt.Sprintf("Error: Unknown bot %q. No provider is configured for it.", targetID), nil)
	}

	return t.providers[t.defaultTarget], true, nil
}

// Targets returns the public catalog in configured order
func (t *Table) Targets() []TargetInfo {
	infos := make([]TargetInfo, 0, len(t.order))
	for _, id := range t.order {
		p := t.providers[id]
		infos = append(infos, TargetInfo{
			ID:      p.TargetID,
			Name:    p.Name,
			Model:   p.Model,
			Logo:    p.Logo,
			Accent:  p.Accent,
			Enabled: !p.APIKey.Empty(),
			Default: id == t.defaultTarget,
		})
	}
	return infos
}

// DefaultTarget returns the fallback target id
func (t *Table) DefaultTarget() string {
	return t.defaultTarget
}
