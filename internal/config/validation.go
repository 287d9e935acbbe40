package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct tags and the rules that span fields.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	if n := cfg.Game.Seats(); n < 2 || n > 8 {
		return fmt.Errorf("table needs 2 to 8 seats, have %d", n)
	}
	seen := make(map[string]bool)
	for _, p := range cfg.Game.Players {
		if seen[p.Name] {
			return fmt.Errorf("duplicate player name %q", p.Name)
		}
		seen[p.Name] = true
	}
	if cfg.Game.Board.File != "" && cfg.Game.Board.Generate {
		return fmt.Errorf("board: file and generate are mutually exclusive")
	}
	return nil
}

// formatValidationError converts validator errors into readable messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Namespace(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}
