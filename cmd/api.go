package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/andrewwillette/willette/internal/services"
	"github.com/andrewwillette/willette/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	return r.writeResponse(resp, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.api.Post(ctx, path, json.RawMessage(data))
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	return r.writeResponse(resp, true)
}

// writeResponse prints the parsed body, falling back to the raw bytes when it was not JSON.
func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	body := resp.Body
	if resp.HasBody() {
		var buf bytes.Buffer
		var err error
		if pretty {
			err = json.Indent(&buf, resp.ParsedBody, "", "  ")
		} else {
			err = json.Compact(&buf, resp.ParsedBody)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrParse, err)
		}
		body = buf.Bytes()
	}

	if err := r.writeBytes(bytes.TrimRight(body, "\n")); err != nil {
		return err
	}
	return r.writePlain("\n")
}
