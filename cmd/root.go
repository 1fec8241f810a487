// Package cmd implements the CLI command structure for blossom.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/blossom/internal/config"
	"github.com/nibzard/blossom/internal/controller"
	"github.com/nibzard/blossom/internal/hooks"
	"github.com/nibzard/blossom/internal/logging"
	"github.com/nibzard/blossom/internal/storage"
	"github.com/nibzard/blossom/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the blossom CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("blossom", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}
	cfg := cws.Config

	// With no subcommand, open the task list.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "done", "toggle":
		return doneCommand(ctx, cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(ctx, cfg, remainingArgs)
	case "clear":
		return clearCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "journal", "tail":
		return journalCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session is an opened task list: slot, store, controller and, when
// enabled, the journal.
type session struct {
	cfg     *config.Config
	logger  *log.Logger
	slot    storage.Slot
	store   *todo.Store
	ctrl    *controller.Controller
	journal *logging.Journal
	hooks   *hooks.Runner
}

// openSession opens the configured slot, loads the task list and builds
// the controller. A failed read is logged and the list starts empty.
// Hook output goes to hookOut, or nowhere when it is nil. With
// backgroundHooks the hook runs off the caller's goroutine.
func openSession(ctx context.Context, cfg *config.Config, hookOut io.Writer, backgroundHooks bool, opts ...controller.Option) (*session, error) {
	logger := newLogger(cfg)
	for _, key := range cfg.UnknownKeys {
		logger.Warn("unknown config key", "key", key)
	}
	slot, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Backend, err)
	}

	store := todo.NewStore(slot, todo.WithLogger(logger), todo.WithSlotKey(cfg.SlotKey))
	if err := store.Load(ctx); err != nil {
		logger.Warn("could not read saved tasks, starting empty", "err", err)
	}

	opts = append([]controller.Option{controller.WithLogger(logger)}, opts...)
	s := &session{
		cfg:    cfg,
		logger: logger,
		slot:   slot,
		store:  store,
		ctrl:   controller.New(store, opts...),
	}

	if cfg.Journal {
		journal, err := logging.OpenJournal(cfg.DataDir, logger)
		if err != nil {
			logger.Warn("journal disabled", "err", err)
		} else {
			s.journal = journal
			s.ctrl.Subscribe(journal)
		}
	}
	if cfg.HookCommand != "" {
		hookOpts := hooks.Options{
			Command: cfg.HookCommand,
			Stdout:  hookOut,
			Stderr:  hookOut,
		}
		if backgroundHooks {
			s.hooks = hooks.StartRunner(ctx, hookOpts, logger)
		} else {
			s.hooks = hooks.NewRunner(ctx, hookOpts, logger)
		}
		s.ctrl.Subscribe(s.hooks)
	}
	return s, nil
}

func (s *session) Close() error {
	if s.hooks != nil {
		s.hooks.Close()
	}
	if err := s.journal.Close(); err != nil {
		s.logger.Warn("closing journal", "err", err)
	}
	return s.slot.Close()
}

func newLogger(cfg *config.Config) *log.Logger {
	return logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
}

// finish turns an operation error into the command result. A storage
// error means the change was applied but not saved, which is a warning.
func finish(err error) error {
	if err == nil {
		return nil
	}
	if todo.IsStorage(err) {
		fmt.Fprintf(stderr, "Warning: change applied but not saved: %v\n", err)
		return nil
	}
	return err
}

func versionCommand() error {
	fmt.Fprintf(stdout, "blossom version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Blossom - a small task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  blossom [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui              Open the interactive task list (default command)")
	fmt.Fprintln(w, "  add <text...>    Add a task")
	fmt.Fprintln(w, "  done <id>        Toggle a task between pending and completed")
	fmt.Fprintln(w, "  rm <id>          Delete a task")
	fmt.Fprintln(w, "  clear            Delete all tasks after confirmation")
	fmt.Fprintln(w, "  ls               List tasks")
	fmt.Fprintln(w, "  journal          Show recent notifications from the journal")
	fmt.Fprintln(w, "  config           Show the effective configuration")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tui Options:")
	fmt.Fprintln(w, "  -no-effects")
	fmt.Fprintln(w, "        Disable decorative effects")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Clear Options:")
	fmt.Fprintln(w, "  -yes")
	fmt.Fprintln(w, "        Skip the confirmation prompt")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format: text, json or yaml (default \"text\")")
	fmt.Fprintln(w, "  -pending")
	fmt.Fprintln(w, "        Only show pending tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Journal Options:")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of entries to show, 0 for all (default 20)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example configuration file")
}

// joinArgs joins free-text arguments with single spaces.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
