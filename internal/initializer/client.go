package initializer

import (
	"fmt"
	"net/url"

	"github.com/AlecAivazis/survey/v2"
	"github.com/protonix-ai/protonix/internal/theme"
)

// ConfigureClient asks for the chat client settings
func (i *Initializer) ConfigureClient() error {
	i.cliTheme.GetCurrentTheme().Info().Println("\n💬 Configure the chat client")

	relayURL := i.Config.Client.RelayURL
	if err := i.ask(&survey.Input{
		Message: "Relay URL used by 'chat --remote':",
		Default: relayURL,
	}, &relayURL, survey.WithValidator(validateURL)); err != nil {
		return err
	}

	names := theme.Names()
	themes := make([]string, 0, len(names))
	for _, n := range names {
		themes = append(themes, string(n))
	}
	themeName := i.Config.Client.Theme
	if err := i.ask(&survey.Select{
		Message: "Color theme:",
		Options: themes,
		Default: themeName,
	}, &themeName); err != nil {
		return err
	}

	sticky := i.Config.Client.StickyComparison
	if err := i.ask(&survey.Confirm{
		Message: "Keep comparison mode for the whole conversation once it starts?",
		Default: sticky,
	}, &sticky); err != nil {
		return err
	}

	history := i.Config.Client.History
	if err := i.ask(&survey.Confirm{
		Message: "Save conversations to the local history database?",
		Default: history,
	}, &history); err != nil {
		return err
	}

	i.Config.Client.RelayURL = relayURL
	i.Config.Client.Theme = themeName
	i.Config.Client.StickyComparison = sticky
	i.Config.Client.History = history
	return nil
}

func validateURL(ans interface{}) error {
	s, _ := ans.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", s)
	}
	return nil
}
