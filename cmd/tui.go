package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nibzard/blossom/internal/config"
	"github.com/nibzard/blossom/internal/controller"
	"github.com/nibzard/blossom/internal/effects"
	"github.com/nibzard/blossom/internal/ui"
)

// tuiCommand launches the interactive task list.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("blossom tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	noEffects := fs.Bool("no-effects", !cfg.Effects, "Disable decorative effects")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(stdout) {
		return fmt.Errorf("tui requires a TTY, use ls/add/done/rm instead")
	}

	prompt := &ui.Prompt{}
	s, err := openSession(ctx, cfg, nil, true, controller.WithConfirmer(prompt))
	if err != nil {
		return err
	}
	defer s.Close()

	opts := []ui.Option{ui.WithPrompt(prompt), ui.WithLogger(s.logger)}
	if !*noEffects {
		opts = append(opts, ui.WithEffects(effects.NewTrigger(uint64(time.Now().UnixNano()))))
	}
	return ui.Run(ctx, s.ctrl, opts...)
}
