package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.blossom/blossom.toml or OS-specific config dir)
// 3. Project config file (blossom.toml or .blossom.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	if explicit := os.Getenv("BLOSSOM_CONFIG"); explicit != "" {
		// An explicit file replaces both lookups.
		if err := loadConfigFile(cfg, explicit, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", explicit, err)
		}
	} else {
		// 2. Try to load from user config file
		if userConfigFile := findUserConfigFile(); userConfigFile != "" {
			if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
				return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
			}
		}

		// 3. Try to load from project config file (overrides user config)
		if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
			if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
				return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
			}
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
	}, nil
}

// loadConfigFile decodes the TOML file at path over cfg. Only keys present
// in the file change, and only those are attributed to source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	cfg.Files = append(cfg.Files, path)

	if sources != nil {
		for _, field := range configFields() {
			if md.IsDefined(field) {
				sources[field] = source
			}
		}
	}
	for _, key := range md.Undecoded() {
		cfg.UnknownKeys = append(cfg.UnknownKeys, fmt.Sprintf("%s: %s", path, key.String()))
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	cfg.DataDir = expandPath(strings.TrimSpace(cfg.DataDir))
	if cfg.DataDir == "" {
		cfg.DataDir = expandPath(DefaultDataDir)
	}
	if !filepath.IsAbs(cfg.DataDir) {
		abs, err := filepath.Abs(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("resolving data dir: %w", err)
		}
		cfg.DataDir = abs
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if !slices.Contains(Backends, cfg.Backend) {
		return fmt.Errorf("invalid backend %q, must be one of: %s", cfg.Backend, strings.Join(Backends, ", "))
	}

	cfg.SlotKey = strings.TrimSpace(cfg.SlotKey)
	if cfg.SlotKey == "" {
		cfg.SlotKey = DefaultSlotKey
	}

	cfg.HookCommand = expandPath(strings.TrimSpace(cfg.HookCommand))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	return nil
}

// GetConfigFile returns the last config file that was read, if any.
func (cws *ConfigWithSources) GetConfigFile() string {
	if cws == nil || cws.Config == nil || len(cws.Config.Files) == 0 {
		return ""
	}
	return cws.Config.Files[len(cws.Config.Files)-1]
}

// Value returns the display value of a config field by its TOML name.
func (c *Config) Value(field string) string {
	switch field {
	case "data_dir":
		return c.DataDir
	case "backend":
		return c.Backend
	case "slot_key":
		return c.SlotKey
	case "journal":
		return fmt.Sprint(c.Journal)
	case "effects":
		return fmt.Sprint(c.Effects)
	case "hook_command":
		return c.HookCommand
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	default:
		return ""
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}
