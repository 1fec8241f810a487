package cmd

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/nibzard/blossom/internal/config"
	"github.com/nibzard/blossom/internal/logging"
)

// journalCommand prints the last notifications from the journal.
func journalCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("blossom journal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", 20, "Number of entries to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return logging.TailJournal(stdout, filepath.Join(cfg.DataDir, logging.JournalFileName), *n)
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("blossom config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	if file := cws.GetConfigFile(); file != "" {
		fmt.Fprintf(stdout, "Config file: %s\n\n", file)
	} else {
		fmt.Fprintf(stdout, "Config file: (none)\n\n")
	}
	for _, field := range config.Fields() {
		fmt.Fprintf(stdout, "  %-15s %-30s (%s)\n", field, cfg.Value(field), cws.Sources[field])
	}
	for _, key := range cfg.UnknownKeys {
		fmt.Fprintf(stderr, "Warning: unknown config key %s\n", key)
	}
	return nil
}
