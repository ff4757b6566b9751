package initializer

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/protonix-ai/protonix/internal/config"
)

// ConfigureTargets asks which providers to enable and which one answers by default
func (i *Initializer) ConfigureTargets() error {
	i.cliTheme.GetCurrentTheme().Info().Println("\n🤖 Configure chat targets")

	available := mergeTargets(i.Config.Targets, config.DefaultTargets())

	options := make([]string, 0, len(available))
	byLabel := make(map[string]string, len(available))
	for _, t := range available {
		label := targetOption(t)
		options = append(options, label)
		byLabel[label] = t.ID
	}

	var defaults []string
	for _, t := range i.Config.Targets {
		defaults = append(defaults, targetOption(t))
	}

	var chosen []string
	if err := i.ask(&survey.MultiSelect{
		Message: "Targets to enable:",
		Options: options,
		Default: defaults,
		Help:    "Each target needs its API key exported in the environment of the relay.",
	}, &chosen, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	ids := make([]string, 0, len(chosen))
	for _, label := range chosen {
		ids = append(ids, byLabel[label])
	}
	selected := selectTargets(available, ids)
	if len(selected) == 0 {
		return fmt.Errorf("at least one target must be enabled")
	}

	defaultID := i.Config.Server.DefaultTarget
	if !containsID(selected, defaultID) {
		defaultID = selected[0].ID
	}
	selectedIDs := make([]string, 0, len(selected))
	for _, t := range selected {
		selectedIDs = append(selectedIDs, t.ID)
	}
	if err := i.ask(&survey.Select{
		Message: "Default target for messages without a mention:",
		Options: selectedIDs,
		Default: defaultID,
	}, &defaultID); err != nil {
		return err
	}

	i.Config.Targets = selected
	i.Config.Server.DefaultTarget = defaultID
	i.Config.Client.DefaultTarget = defaultID
	return nil
}

func targetOption(t config.TargetConfig) string {
	return fmt.Sprintf("%s (%s, %s)", t.ID, t.Name, t.Model)
}

// mergeTargets keeps the configured targets first and appends any built-in target not configured yet
func mergeTargets(current, builtin []config.TargetConfig) []config.TargetConfig {
	out := append([]config.TargetConfig(nil), current...)
	for _, t := range builtin {
		if !containsID(out, t.ID) {
			out = append(out, t)
		}
	}
	return out
}

// selectTargets returns the targets whose id is in ids, keeping the order of all
func selectTargets(all []config.TargetConfig, ids []string) []config.TargetConfig {
	var out []config.TargetConfig
	for _, t := range all {
		for _, id := range ids {
			if strings.EqualFold(t.ID, id) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func containsID(targets []config.TargetConfig, id string) bool {
	for _, t := range targets {
		if strings.EqualFold(t.ID, id) {
			return true
		}
	}
	return false
}
