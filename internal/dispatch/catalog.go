// Package dispatch turns one user message into concurrent relay calls and
// reconciles the replies into a session transcript.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/protonix-ai/protonix/internal/config"
	"github.com/protonix-ai/protonix/internal/relay"
)

// Target is one addressable bot as the client sees it
type Target struct {
	ID     string
	Name   string
	Logo   string
	Accent string
}

// Label is the display tag used in transcripts
func (t Target) Label() string {
	if t.Logo == "" {
		return t.Name
	}
	return t.Logo + " " + t.Name
}

// Catalog is the ordered, read-only set of targets a session can address
type Catalog struct {
	targets   []Target
	index     map[string]int
	defaultID string
}

// NewCatalog builds a catalog. defaultID must name one of the targets.
func NewCatalog(targets []Target, defaultID string) (*Catalog, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("catalog needs at least one target")
	}

	c := &Catalog{
		targets:   make([]Target, 0, len(targets)),
		index:     make(map[string]int, len(targets)),
		defaultID: strings.ToLower(defaultID),
	}
	for _, t := range targets {
		if !config.ValidTargetID(t.ID) {
			return nil, fmt.Errorf("target id %q cannot be mentioned, ids may only contain letters, digits, '_' and '-'", t.ID)
		}
		t.ID = strings.ToLower(t.ID)
		if _, dup := c.index[t.ID]; dup {
			return nil, fmt.Errorf("duplicate target id %q", t.ID)
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		c.index[t.ID] = len(c.targets)
		c.targets = append(c.targets, t)
	}

	if _, ok := c.index[c.defaultID]; !ok {
		return nil, fmt.Errorf("default target %q is not in the catalog", defaultID)
	}

	return c, nil
}

// CatalogFromConfig uses the configured targets and the client default target
func CatalogFromConfig(cfg config.Config) (*Catalog, error) {
	targets := make([]Target, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		targets = append(targets, Target{ID: t.ID, Name: t.Name, Logo: t.Logo, Accent: t.Accent})
	}
	return NewCatalog(targets, cfg.Client.DefaultTarget)
}

// CatalogFromInfos uses a catalog fetched from a running relay.
// An empty defaultID picks the target the relay marks as default.
func CatalogFromInfos(infos []relay.TargetInfo, defaultID string) (*Catalog, error) {
	targets := make([]Target, 0, len(infos))
	for _, info := range infos {
		targets = append(targets, Target{ID: info.ID, Name: info.Name, Logo: info.Logo, Accent: info.Accent})
		if defaultID == "" && info.Default {
			defaultID = info.ID
		}
	}
	return NewCatalog(targets, defaultID)
}

// All returns the targets in configured order
func (c *Catalog) All() []Target {
	out := make([]Target, len(c.targets))
	copy(out, c.targets)
	return out
}

// Lookup finds a target by id, ignoring case
func (c *Catalog) Lookup(id string) (Target, bool) {
	i, ok := c.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Target{}, false
	}
	return c.targets[i], true
}

// Default returns the fallback target
func (c *Catalog) Default() Target {
	return c.targets[c.index[c.defaultID]]
}

// Len returns the number of targets
func (c *Catalog) Len() int {
	return len(c.targets)
}
