package dispatch

import (
	"regexp"
	"strings"

	"github.com/protonix-ai/protonix/internal/config"
)

const (
	idChar = `[` + config.TargetIDCharset + `]`
	// idBoundary is any character that cannot be part of a target id
	idBoundary = `[^` + config.TargetIDCharset + `]`
)

// Selection is the outcome of scanning a message for target syntax
type Selection struct {
	Targets   []Target
	Broadcast bool
}

// Parser recognises the broadcast marker and per-target mentions
type Parser struct {
	catalog   *Catalog
	broadcast *regexp.Regexp
	mention   *regexp.Regexp
}

// NewParser compiles matchers for the given marker and mention prefix
func NewParser(catalog *Catalog, marker, prefix string) *Parser {
	return &Parser{
		catalog:   catalog,
		broadcast: regexp.MustCompile(`(?i)(?:^|` + idBoundary + `)` + regexp.QuoteMeta(marker) + `(?:$|` + idBoundary + `)`),
		mention:   regexp.MustCompile(`(?i)(?:^|` + idBoundary + `)` + regexp.QuoteMeta(prefix) + `(` + idChar + `+)`),
	}
}

// Parse returns every target for a broadcast, the mentioned targets in order of
// first appearance, or an empty selection when the message addresses nobody.
// Unknown mentions are ignored.
func (p *Parser) Parse(message string) Selection {
	if p.broadcast.MatchString(message) {
		return Selection{Targets: p.catalog.All(), Broadcast: true}
	}

	var sel Selection
	seen := make(map[string]bool)
	for _, m := range p.mention.FindAllStringSubmatch(message, -1) {
		t, ok := p.catalog.Lookup(m[1])
		if !ok || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		sel.Targets = append(sel.Targets, t)
	}
	return sel
}

// ParseTargets scans message with a one-off parser
func ParseTargets(message string, catalog *Catalog, marker, prefix string) Selection {
	return NewParser(catalog, strings.TrimSpace(marker), strings.TrimSpace(prefix)).Parse(message)
}
