// Package settings loads the CLI's own settings from CONFSKEMA_ environment
// variables.
package settings

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	koanf "github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every recognized environment variable, e.g.
// CONFSKEMA_LOG_LEVEL maps to log_level.
const EnvPrefix = "CONFSKEMA_"

// Settings controls the CLI. Flags override these values.
type Settings struct {
	Lang      string `koanf:"lang" validate:"oneof=en ja"`
	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `koanf:"log_format" validate:"oneof=console json"`
	Jobs      int    `koanf:"jobs" validate:"min=1,max=256"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		Lang:      "en",
		LogLevel:  "warn",
		LogFormat: "console",
		Jobs:      min(runtime.NumCPU(), 8),
	}
}

var validate = validator.New()

// FromEnv overlays the environment on the defaults without validating, so
// callers can apply further overrides first.
func FromEnv() (Settings, error) {
	return load(env.Provider(EnvPrefix, ".", keyOf))
}

func keyOf(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func load(p koanf.Provider) (Settings, error) {
	k := koanf.New(".")
	s := Defaults()
	if err := k.Load(p, nil); err != nil {
		return s, fmt.Errorf("settings: env overlay: %w", err)
	}
	if err := k.Unmarshal("", &s); err != nil {
		return s, fmt.Errorf("settings: unmarshal: %w", err)
	}
	return s, nil
}

// Validate checks s against its field rules.
func Validate(s Settings) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}
