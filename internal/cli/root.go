// Package cli implements the confskema command line.
package cli

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reoring/confskema/i18n"
	"github.com/reoring/confskema/internal/logging"
	"github.com/reoring/confskema/internal/settings"
)

// ErrCheckFailed is returned when at least one file failed validation. The
// failures themselves have already been reported on the output.
var ErrCheckFailed = errors.New("validation failed")

type app struct {
	out      io.Writer
	errOut   io.Writer
	settings settings.Settings
	logger   zerolog.Logger
}

// NewRootCommand returns the confskema command tree writing results to out
// and diagnostics to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "confskema",
		Short:         "Validate configuration files against a typed schema",
		Long:          `confskema checks JSON, YAML and TOML configuration files against a schema, filling in declared defaults.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("lang", "", "message language (en, ja)")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	flags.String("log-format", "", "log format (console, json)")
	flags.Int("jobs", 0, "number of files checked concurrently")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.setup(cmd)
	}

	root.AddCommand(a.checkCommand(), a.keyCommand(), a.jsonSchemaCommand())
	return root
}

// setup loads settings from the environment, applies flag overrides and
// configures messages and logging.
func (a *app) setup(cmd *cobra.Command) error {
	s, err := settings.FromEnv()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("lang") {
		s.Lang, _ = flags.GetString("lang")
	}
	if flags.Changed("log-level") {
		s.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		s.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("jobs") {
		s.Jobs, _ = flags.GetInt("jobs")
	}
	if err := settings.Validate(s); err != nil {
		return err
	}
	a.settings = s
	i18n.SetLanguage(s.Lang)
	a.logger = logging.New(a.errOut, s.LogLevel, s.LogFormat)
	return nil
}
