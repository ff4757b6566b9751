package theme

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Name identifies a built-in theme
type Name string

const (
	Default      Name = "default"
	Professional Name = "professional"
	ModernDark   Name = "modern-dark"
	Corporate    Name = "corporate"
	Plain        Name = "plain"
)

// Names lists the selectable themes
func Names() []Name {
	return []Name{Professional, Default, ModernDark, Corporate, Plain}
}

// palette is the Theme implementation shared by all built-in themes
type palette struct {
	primary   *Style
	secondary *Style
	success   *Style
	error     *Style
	warning   *Style
	info      *Style
	subtle    *Style
	accents   map[string]*Style
	writer    io.Writer
	enabled   bool
	mu        sync.RWMutex
}

type styleDef struct {
	fg    color.Attribute
	attrs []color.Attribute
}

func s(fg color.Attribute, attrs ...color.Attribute) styleDef {
	return styleDef{fg: fg, attrs: attrs}
}

var palettes = map[Name][7]styleDef{
	Default: {
		s(color.FgHiCyan, color.Bold), s(color.FgBlue), s(color.FgGreen, color.Bold),
		s(color.FgRed, color.Bold), s(color.FgYellow), s(color.FgWhite), s(color.FgHiBlack),
	},
	Professional: {
		s(color.FgBlue, color.Bold), s(color.FgHiBlue), s(color.FgGreen),
		s(color.FgRed), s(color.FgYellow), s(color.FgWhite), s(color.FgHiBlack),
	},
	ModernDark: {
		s(color.FgHiBlue), s(color.FgBlue), s(color.FgHiGreen),
		s(color.FgHiRed), s(color.FgHiYellow), s(color.FgHiWhite), s(color.FgWhite),
	},
	Corporate: {
		s(color.FgBlue, color.Bold), s(color.FgBlue), s(color.FgGreen),
		s(color.FgRed), s(color.FgYellow), s(color.FgWhite), s(color.FgHiBlack),
	},
}

// New builds the named theme writing to w. Unknown names get the professional
// theme; Plain never emits color codes.
func New(name Name, w io.Writer) Theme {
	specs, ok := palettes[name]
	if !ok {
		specs = palettes[Professional]
	}

	p := &palette{
		primary:   NewStyle(w, specs[0].fg, 0, specs[0].attrs...),
		secondary: NewStyle(w, specs[1].fg, 0, specs[1].attrs...),
		success:   NewStyle(w, specs[2].fg, 0, specs[2].attrs...),
		error:     NewStyle(w, specs[3].fg, 0, specs[3].attrs...),
		warning:   NewStyle(w, specs[4].fg, 0, specs[4].attrs...),
		info:      NewStyle(w, specs[5].fg, 0, specs[5].attrs...),
		subtle:    NewStyle(w, specs[6].fg, 0, specs[6].attrs...),
		accents:   make(map[string]*Style),
		writer:    w,
	}

	// Respect NO_COLOR and non-terminal output
	p.SetEnabled(name != Plain && !color.NoColor)
	return p
}

// Primary returns the primary style
func (t *palette) Primary() *Style { return t.primary }

// Secondary returns the secondary style
func (t *palette) Secondary() *Style { return t.secondary }

// Success returns the success style
func (t *palette) Success() *Style { return t.success }

// Error returns the error style
func (t *palette) Error() *Style { return t.error }

// Warning returns the warning style
func (t *palette) Warning() *Style { return t.warning }

// Info returns the info style
func (t *palette) Info() *Style { return t.info }

// Subtle returns the subtle style
func (t *palette) Subtle() *Style { return t.subtle }

// Accent returns a bold style in the basic terminal color closest to hex.
// Invalid hex values fall back to the info style.
func (t *palette) Accent(hex string) *Style {
	fg, ok := nearestColor(hex)
	if !ok {
		return t.info
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := strings.ToLower(hex)
	if style, ok := t.accents[key]; ok {
		return style
	}
	style := NewStyle(t.writer, fg, 0, color.Bold)
	style.setEnabled(t.enabled)
	t.accents[key] = style
	return style
}

// IsEnabled reports if colors are enabled
func (t *palette) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// SetEnabled enables or disables color output
func (t *palette) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	for _, style := range []*Style{t.primary, t.secondary, t.success, t.error, t.warning, t.info, t.subtle} {
		style.setEnabled(enabled)
	}
	for _, style := range t.accents {
		style.setEnabled(enabled)
	}
}

var basicColors = []struct {
	attr    color.Attribute
	r, g, b int
}{
	{color.FgRed, 205, 49, 49},
	{color.FgGreen, 13, 188, 121},
	{color.FgYellow, 229, 229, 16},
	{color.FgBlue, 36, 114, 200},
	{color.FgMagenta, 188, 63, 188},
	{color.FgCyan, 17, 168, 205},
	{color.FgWhite, 229, 229, 229},
	{color.FgHiRed, 241, 76, 76},
	{color.FgHiGreen, 35, 209, 139},
	{color.FgHiBlue, 59, 142, 234},
	{color.FgHiCyan, 41, 184, 219},
}

func nearestColor(hex string) (color.Attribute, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	r, g, b := int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)

	best, bestDist := color.FgWhite, -1
	for _, c := range basicColors {
		dr, dg, db := r-c.r, g-c.g, b-c.b
		if d := dr*dr + dg*dg + db*db; bestDist < 0 || d < bestDist {
			best, bestDist = c.attr, d
		}
	}
	return best, true
}
