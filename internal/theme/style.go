package theme

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// StylePrinter defines an interface for printing styled text
type StylePrinter interface {
	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})
}

// Style represents a named color style bound to an output
type Style struct {
	printer *color.Color
	writer  io.Writer
}

// NewStyle creates a new style writing to w with foreground, background and attributes
func NewStyle(w io.Writer, fg, bg color.Attribute, attrs ...color.Attribute) *Style {
	c := color.New()
	if fg != 0 {
		c.Add(fg)
	}
	if bg != 0 {
		c.Add(bg)
	}
	if len(attrs) > 0 {
		c.Add(attrs...)
	}

	return &Style{
		printer: c,
		writer:  w,
	}
}

func (s *Style) setEnabled(enabled bool) {
	if enabled {
		s.printer.EnableColor()
	} else {
		s.printer.DisableColor()
	}
}

// Print prints text using the style
func (s *Style) Print(a ...interface{}) {
	fmt.Fprint(s.writer, s.printer.Sprint(a...))
}

// Printf prints formatted text using the style
func (s *Style) Printf(format string, a ...interface{}) {
	fmt.Fprint(s.writer, s.printer.Sprintf(format, a...))
}

// Println prints text using the style followed by a newline
func (s *Style) Println(a ...interface{}) {
	fmt.Fprintln(s.writer, s.printer.Sprint(a...))
}

// Sprint returns styled text, used where output is assembled before printing
func (s *Style) Sprint(a ...interface{}) string {
	return s.printer.Sprint(a...)
}
