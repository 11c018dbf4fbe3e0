package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Setting keys.
const (
	KeyMaxStackDepth      = "max_stack_depth"
	KeyBuiltinTransforms  = "builtin_transforms"
	KeyDisabledTransforms = "disabled_transforms"
	KeyMetrics            = "metrics"
	KeyTracing            = "tracing"
	KeyLogLevel           = "log_level"
)

// DefaultMaxStackDepth matches the evaluator's own default.
const DefaultMaxStackDepth = 256

// ErrInvalidSettings is returned by Validate and Load for out-of-range values.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds data model tuning read from a Config.
type Settings struct {
	MaxStackDepth      int
	BuiltinTransforms  bool
	DisabledTransforms []string
	Metrics            bool
	Tracing            bool
	LogLevel           string
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		MaxStackDepth:     DefaultMaxStackDepth,
		BuiltinTransforms: true,
		LogLevel:          "info",
	}
}

// Load reads Settings from the section of cfg named by prefix.
// An empty prefix reads from the top level.
func Load(cfg Config, prefix string) (Settings, error) {
	section := cfg.Sub(prefix)
	d := Defaults()
	s := Settings{
		MaxStackDepth:      section.Int(KeyMaxStackDepth, d.MaxStackDepth),
		BuiltinTransforms:  section.Bool(KeyBuiltinTransforms, d.BuiltinTransforms),
		DisabledTransforms: section.StringSlice(KeyDisabledTransforms, nil),
		Metrics:            section.Bool(KeyMetrics, d.Metrics),
		Tracing:            section.Bool(KeyTracing, d.Tracing),
		LogLevel:           section.String(KeyLogLevel, d.LogLevel),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports whether the settings are usable.
func (s Settings) Validate() error {
	if s.MaxStackDepth <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidSettings, KeyMaxStackDepth, s.MaxStackDepth)
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel, defaulting to Info.
func (s Settings) Level() slog.Level {
	l, err := parseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// TransformDisabled reports whether name is listed in DisabledTransforms.
func (s Settings) TransformDisabled(name string) bool {
	return slices.Contains(s.DisabledTransforms, name)
}

func parseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidSettings, KeyLogLevel, name)
	}
	return l, nil
}
