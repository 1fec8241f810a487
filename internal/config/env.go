package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from BLOSSOM_* environment variables.
// Empty variables are ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("BLOSSOM_DATA_DIR"); v != "" {
		cfg.DataDir = v
		set("data_dir")
	}
	if v := os.Getenv("BLOSSOM_BACKEND"); v != "" {
		cfg.Backend = v
		set("backend")
	}
	if v := os.Getenv("BLOSSOM_SLOT_KEY"); v != "" {
		cfg.SlotKey = v
		set("slot_key")
	}
	if v := os.Getenv("BLOSSOM_JOURNAL"); v != "" {
		cfg.Journal = boolFromString(v)
		set("journal")
	}
	if v := os.Getenv("BLOSSOM_EFFECTS"); v != "" {
		cfg.Effects = boolFromString(v)
		set("effects")
	}
	if v := os.Getenv("BLOSSOM_HOOK"); v != "" {
		cfg.HookCommand = v
		set("hook_command")
	}
	if v := os.Getenv("BLOSSOM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("BLOSSOM_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("BLOSSOM_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("BLOSSOM_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
}

// boolFromString parses common truthy spellings. Anything else is false.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
