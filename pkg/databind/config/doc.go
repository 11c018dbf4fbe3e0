/*
Package config loads data model settings from YAML or JSON.

# Overview

Config wraps a decoded document and provides typed accessors that return a
default when a key is missing or holds the wrong type. Keys may be dotted
paths into nested maps:

	cfg, err := config.FromYAML([]byte(`
	databind:
	  max_stack_depth: 64
	  log_level: debug
	`))
	depth := cfg.Int("databind.max_stack_depth", 256) // 64

# Settings

Load reads the recognized keys under an optional prefix into Settings:

	settings, err := config.Load(cfg, "databind")

Recognized keys and their defaults:

	max_stack_depth      256
	builtin_transforms   true
	disabled_transforms  []
	metrics              false
	tracing              false
	log_level            info

# Thread Safety

Config is safe for concurrent reads. The underlying map is not modified
after creation.
*/
package config
