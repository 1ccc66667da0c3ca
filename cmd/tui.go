package main

import (
	"context"
	"fmt"

	"github.com/andrewwillette/willette/internal/shared"
	"github.com/andrewwillette/willette/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// Admin launches the interactive admin page.
func (r *Runner) Admin(ctx context.Context, cmd *cli.Command) error {
	if r.controller == nil {
		return fmt.Errorf("%w: admin controller not initialized", shared.ErrServiceUnavailable)
	}

	logPath, err := shared.ExpandHome(cmd.String("log-file"))
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.closers = append(r.closers, closer)
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.controller)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
