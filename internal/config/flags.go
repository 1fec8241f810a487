package config

import (
	"flag"
)

// flagFields maps flag names to the config field they set.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"backend":        "backend",
	"slot":           "slot_key",
	"journal":        "journal",
	"effects":        "effects",
	"hook":           "hook_command",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// RegisterFlags defines the global flags on fs, bound to cfg.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for tasks, database and journal")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend: file, sqlite or memory")
	fs.StringVar(&cfg.SlotKey, "slot", cfg.SlotKey, "Storage slot key for the task list")
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Append notifications to the journal")
	fs.BoolVar(&cfg.Effects, "effects", cfg.Effects, "Show decorative effects in the TUI")
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Command to run after every change")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json, logfmt")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in logs")
}

// parseFlags registers and parses the global flags. Explicitly set flags
// are attributed to SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("blossom", flag.ContinueOnError)
	}
	RegisterFlags(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
