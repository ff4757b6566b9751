package dispatch

import (
	"fmt"
	"strings"
)

// Enhance wraps a draft prompt in an instruction asking for professional output.
// Blank input is returned unchanged.
func Enhance(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return prompt
	}
	return fmt.Sprintf(`Optimize prompt for professional output: "%s"`, prompt)
}
