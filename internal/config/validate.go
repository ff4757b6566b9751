package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("targetid", func(fl validator.FieldLevel) bool {
		return ValidTargetID(fl.Field().String())
	})
	return v
}

// Validate checks field constraints and cross-field rules such as unique target ids
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				if fe.Tag() == "targetid" {
					msgs = append(msgs, fmt.Sprintf("%s %q may only contain letters, digits, '_' and '-'", fe.Namespace(), fe.Value()))
					continue
				}
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Targets))
	for _, t := range c.Targets {
		id := strings.ToLower(t.ID)
		if _, dup := seen[id]; dup {
			return fmt.Errorf("invalid configuration: duplicate target id %q", t.ID)
		}
		seen[id] = struct{}{}

		if strings.EqualFold(c.Client.MentionPrefix+t.ID, c.Client.BroadcastMarker) {
			return fmt.Errorf("invalid configuration: target id %q collides with the broadcast marker", t.ID)
		}
	}

	if _, ok := c.Target(c.Server.DefaultTarget); !ok {
		return fmt.Errorf("invalid configuration: server default target %q is not configured", c.Server.DefaultTarget)
	}
	if _, ok := c.Target(c.Client.DefaultTarget); !ok {
		return fmt.Errorf("invalid configuration: client default target %q is not configured", c.Client.DefaultTarget)
	}
	if strings.EqualFold(c.Client.BroadcastMarker, c.Client.MentionPrefix) {
		return fmt.Errorf("invalid configuration: broadcast marker and mention prefix must differ")
	}

	return nil
}
