package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/andrewwillette/willette/internal/admin"
	"github.com/andrewwillette/willette/internal/formatter"
	"github.com/andrewwillette/willette/internal/shared"
	"github.com/urfave/cli/v3"
)

// fetch loads the records into a fresh state.
func (r *Runner) fetch(ctx context.Context) (admin.State, error) {
	state := r.controller.Drive(ctx, admin.State{}, admin.RefreshMsg{})
	if state.Err != nil {
		return state, fmt.Errorf("%w: %w", shared.ErrAPIRequest, state.Err)
	}
	return state, nil
}

// URLsList prints every url in display order.
func (r *Runner) URLsList(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputPath := cmd.String("output")

	state, err := r.fetch(ctx)
	if err != nil {
		return err
	}
	if state.Records == nil {
		r.logger.Warn("backend returned no body")
	}

	if outputPath != "" {
		if err := formatter.WriteExport(format, state.Records, outputPath); err != nil {
			return err
		}
		r.logger.Info("export written", "path", outputPath, "format", format)
		return r.writePlain("✓ Wrote %d urls to %s\n", len(state.Records), outputPath)
	}

	data, err := formatter.Export(format, state.Records)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// URLsAdd adds a url with the stored token.
func (r *Runner) URLsAdd(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	state := r.controller.Drive(ctx, admin.State{}, admin.AddMsg{URL: url})
	if err := mutationError(state); err != nil {
		return err
	}
	return r.writePlain("✓ Added %s (%d urls)\n", url, len(state.Records))
}

// URLsDelete deletes a url with the stored token.
func (r *Runner) URLsDelete(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	state := r.controller.Drive(ctx, admin.State{}, admin.DeleteMsg{URL: url})
	if err := mutationError(state); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %s (%d urls)\n", url, len(state.Records))
}

// URLsOrder edits one uiOrder and saves the whole list, as the admin page's save button does.
func (r *Runner) URLsOrder(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	value := cmd.StringArg("value")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	state, err := r.fetch(ctx)
	if err != nil {
		return err
	}
	if _, ok := state.Record(url); !ok {
		return fmt.Errorf("%w: %s", shared.ErrURLNotFound, url)
	}

	state = r.controller.Drive(ctx, state, admin.EditOrderMsg{URL: url, Value: value})
	state = r.controller.Drive(ctx, state, admin.SaveMsg{})
	if state.Err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, state.Err)
	}
	if state.SaveStatus != http.StatusOK && state.SaveStatus != http.StatusCreated {
		return fmt.Errorf("%w: save returned status %d", shared.ErrAPIRequest, state.SaveStatus)
	}

	record, _ := state.Record(url)
	return r.writePlain("✓ %s now has uiOrder %s\n", url, record.UIOrder)
}

// mutationError turns a delete or add outcome into a command error.
func mutationError(state admin.State) error {
	banner := state.Banner()
	switch {
	case state.Err != nil:
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, state.Err)
	case banner.Kind == admin.BannerUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrUnauthorized, banner.Message)
	}
	return nil
}

// KeyOfDay prints the key of the day.
func (r *Runner) KeyOfDay(ctx context.Context, cmd *cli.Command) error {
	_, key, err := r.api.KeyOfDay(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	return r.writePlain("%s\n", key)
}
