package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytlikes/internal/shared"
	"github.com/desertthunder/ytlikes/internal/tasks"
	"github.com/desertthunder/ytlikes/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for picking and importing a playlist.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	sync := r.config.Sync
	if err := sync.Validate(); err != nil {
		return err
	}
	if err := r.authenticate(ctx); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.logger = fileLogger

	opts := tasks.Options{
		Delay:      sync.DelayDuration(),
		BatchSize:  sync.BatchSize,
		MaxRetries: sync.MaxRetries,
		Collection: sync.Collection,
	}
	model := ui.NewModel(ctx, r.youtube, r.newEngine(nil), opts, sync.Reverse)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
