package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/databind/pkg/databind"
	"github.com/randalmurphal/databind/pkg/databind/config"
)

// settingsPrefix is the key settings files nest model settings under.
const settingsPrefix = "databind"

// session is a model built from the global flags, with the decoded
// variables document it is bound to.
type session struct {
	model *databind.Model
	vars  map[string]any
}

// openSession builds a model from --settings, --vars, --verbose and --quiet.
func openSession(cmd *cobra.Command) (*session, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	settingsPath, _ := cmd.Flags().GetString("settings")
	varsPath, _ := cmd.Flags().GetString("vars")

	settings := config.Defaults()
	settings.LogLevel = "warn"
	if settingsPath != "" {
		cfg, err := loadFile(settingsPath)
		if err != nil {
			return nil, err
		}
		settings, err = config.Load(cfg, settingsPrefix)
		if err != nil {
			return nil, exitError(exitInput, "settings %s: %s", settingsPath, err)
		}
	}

	level := settings.Level()
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	model := databind.New(
		databind.WithSettings(settings),
		databind.WithLogger(newLogger(cmd.ErrOrStderr(), level)),
	)

	s := &session{model: model, vars: map[string]any{}}
	if varsPath != "" {
		cfg, err := loadFile(varsPath)
		if err != nil {
			return nil, err
		}
		if raw := cfg.Raw(); raw != nil {
			s.vars = raw
		}
		if err := bindDocument(model, s.vars); err != nil {
			return nil, exitError(exitInput, "vars %s: %s", varsPath, err)
		}
	}
	return s, nil
}

// compile compiles text against the session's model, as statements when
// assign is set.
func (s *session) compile(text string, assign bool) (*databind.Expression, error) {
	if assign {
		return s.model.CompileAssignment(text)
	}
	return s.model.Compile(text)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadFile(path string) (config.Config, error) {
	cfg, err := config.FromFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.Config{}, exitError(exitInput, "file not found: %s", path)
		}
		return config.Config{}, exitError(exitInput, "%s", err)
	}
	return cfg, nil
}

// parseEvent decodes key=value flag entries into an event payload. Each
// value is read as a YAML scalar, so "3" is a number and "true" a bool.
func parseEvent(entries map[string]string) (databind.Event, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	ev := make(databind.Event, len(entries))
	for key, raw := range entries {
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, exitError(exitInput, "event %s: %s", key, err)
		}
		switch v.(type) {
		case map[string]any, []any:
			return nil, exitError(exitInput, "event %s: value must be a scalar", key)
		}
		ev[key] = v
	}
	return ev, nil
}

// eventFlag registers the shared --event flag on cmd.
func eventFlag(cmd *cobra.Command) {
	cmd.Flags().StringToStringP("event", "e", nil, "Event payload entry key=value, readable as ev.key")
}

func eventFromFlags(cmd *cobra.Command) (databind.Event, error) {
	entries, err := cmd.Flags().GetStringToString("event")
	if err != nil {
		return nil, fmt.Errorf("reading --event: %w", err)
	}
	return parseEvent(entries)
}
