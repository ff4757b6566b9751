package theme

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/protonix-ai/protonix/internal/config"
)

// DisplayBanner prints a styled banner with the app name and description
func DisplayBanner(t Theme, appCfg *config.AppConfig) {
	Banner(t, fmt.Sprintf("Welcome to %s", appCfg.Name), 40, "Ask one model or compare them all")
}

// Banner prints a boxed title with optional subtitles
func Banner(t Theme, title string, width int, subtitle ...string) {
	primary := t.Primary()
	secondary := t.Secondary()

	if w := utf8.RuneCountInString(title) + 4; width < w {
		width = w
	}
	for _, sub := range subtitle {
		if w := utf8.RuneCountInString(sub) + 4; width < w {
			width = w
		}
	}

	primary.Println("╔" + strings.Repeat("═", width-2) + "╗")
	primary.Println(centered(title, width))

	if len(subtitle) > 0 {
		primary.Println("║" + strings.Repeat("─", width-2) + "║")
		for _, sub := range subtitle {
			secondary.Println(centered(sub, width))
		}
	}

	primary.Println("╚" + strings.Repeat("═", width-2) + "╝")
}

func centered(text string, width int) string {
	gap := width - utf8.RuneCountInString(text) - 2
	left := gap / 2
	return "║" + strings.Repeat(" ", left) + text + strings.Repeat(" ", gap-left) + "║"
}
