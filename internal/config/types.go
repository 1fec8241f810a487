package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultDataDir   = "~/.blossom"
	DefaultBackend   = "file"
	DefaultSlotKey   = "tasks"
	DefaultJournal   = true
	DefaultEffects   = true
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Backends lists the accepted storage backend names.
var Backends = []string{"file", "sqlite", "memory"}

// Config holds the full configuration for blossom.
type Config struct {
	// Storage
	DataDir string `toml:"data_dir"`
	Backend string `toml:"backend"`
	SlotKey string `toml:"slot_key"`

	// Append notifications to <data_dir>/journal.jsonl
	Journal bool `toml:"journal"`

	// Decorative effects in the TUI
	Effects bool `toml:"effects"`

	// Command run after every change (see internal/hooks)
	HookCommand string `toml:"hook_command"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Config files that were read, in load order (computed)
	Files []string `toml:"-"`
	// Keys found in config files that blossom does not know (computed)
	UnknownKeys []string `toml:"-"`
}

// configFields returns the configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_dir",
		"backend",
		"slot_key",
		"journal",
		"effects",
		"hook_command",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults fills cfg with built-in defaults.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Backend = DefaultBackend
	cfg.SlotKey = DefaultSlotKey
	cfg.Journal = DefaultJournal
	cfg.Effects = DefaultEffects
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}
