package initializer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// ConfigureServer asks for the relay listener settings
func (i *Initializer) ConfigureServer() error {
	i.cliTheme.GetCurrentTheme().Info().Println("\n🛰  Configure the relay server")

	port := i.Config.Server.Port
	if err := i.ask(&survey.Input{
		Message: "Port to listen on:",
		Default: port,
	}, &port, survey.WithValidator(validatePort)); err != nil {
		return err
	}

	origins := strings.Join(i.Config.Server.AllowedOrigins, ", ")
	if err := i.ask(&survey.Input{
		Message: "Allowed CORS origins (comma separated, * for any):",
		Default: origins,
	}, &origins); err != nil {
		return err
	}

	strict := i.Config.Server.StrictTargets
	if err := i.ask(&survey.Confirm{
		Message: "Reject requests for unknown bots instead of using the default target?",
		Default: strict,
	}, &strict); err != nil {
		return err
	}

	i.Config.Server.Port = strings.TrimSpace(port)
	i.Config.Server.AllowedOrigins = splitList(origins)
	i.Config.Server.StrictTargets = strict
	return nil
}

func validatePort(ans interface{}) error {
	s, _ := ans.(string)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
