// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.blossom/blossom.toml or OS-specific config directory)
// 3. Project config file (blossom.toml or .blossom.toml in the current directory)
// 4. Environment variables (BLOSSOM_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.blossom/blossom.toml (preferred)
// - Windows: %APPDATA%\blossom\blossom.toml
// - macOS: ~/Library/Application Support/blossom/blossom.toml
// - Linux/BSD: $XDG_CONFIG_HOME/blossom/blossom.toml or ~/.config/blossom/blossom.toml
//
// Project-level config locations (overrides user config):
// - ./blossom.toml (preferred)
// - ./.blossom.toml
//
// BLOSSOM_CONFIG names an explicit file that replaces both lookups.
package config
