package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Blossom configuration file
# Values can be overridden by BLOSSOM_* environment variables or CLI flags

# Data directory for tasks, database and journal (supports ~ expansion)
data_dir = "~/.blossom"

# Storage backend: file, sqlite or memory
backend = "file"

# Slot key the task list is stored under
slot_key = "tasks"

# Append every notification to <data_dir>/journal.jsonl
journal = true

# Decorative effects in the TUI
effects = true

# Command run after every change, called as
#   <command> <kind> <task id> <pending count>
# with the change as JSON on stdin
# hook_command = "~/.blossom/on-change.sh"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
