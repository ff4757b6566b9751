package theme

import (
	"bytes"
	"strings"
	"testing"

	"github.com/protonix-ai/protonix/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestDisplayBanner(t *testing.T) {
	var buf bytes.Buffer
	DisplayBanner(New(Plain, &buf), &config.AppConfig{Name: "Protonix"})

	output := buf.String()
	assert.Contains(t, output, "Welcome to Protonix")
	assert.Contains(t, output, "Ask one model or compare them all")
	assert.Contains(t, output, "╔═")
	assert.Contains(t, output, "╚═")
}

func TestBanner(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		width    int
		subtitle []string
		want     []string
	}{
		{
			name:  "title only",
			title: "My App",
			width: 20,
			want: []string{
				"╔══════════════════╗",
				"║      My App      ║",
				"╚══════════════════╝",
			},
		},
		{
			name:     "odd padding and subtitle",
			title:    "App",
			width:    10,
			subtitle: []string{"sub"},
			want: []string{
				"╔════════╗",
				"║  App   ║",
				"║────────║",
				"║  sub   ║",
				"╚════════╝",
			},
		},
		{
			name:  "width grows to fit",
			title: "Longer title",
			width: 4,
			want: []string{
				"╔══════════════╗",
				"║ Longer title ║",
				"╚══════════════╝",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Banner(New(Plain, &buf), tt.title, tt.width, tt.subtitle...)

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			assert.Equal(t, tt.want, lines)
		})
	}
}
