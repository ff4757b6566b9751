package chat

import (
	"regexp"
	"strings"
)

var (
	headingRe    = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`)
	bulletRe     = regexp.MustCompile(`(?m)^([ \t]*)[*+][ \t]+`)
	strongRe     = regexp.MustCompile(`\*\*([^*\n]+)\*\*|__([^_\n]+)__`)
	emphasisRe   = regexp.MustCompile(`\*([^*\s][^*\n]*?)\*`)
	trailingWSRe = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// Purify turns a markdown-flavoured reply into plain terminal text: heading
// markers and emphasis are dropped, bullets become dots, runs of blank lines
// collapse to one.
func Purify(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = headingRe.ReplaceAllString(text, "")
	text = bulletRe.ReplaceAllString(text, "${1}• ")
	text = strongRe.ReplaceAllString(text, "$1$2")
	text = emphasisRe.ReplaceAllString(text, "$1")
	text = trailingWSRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
