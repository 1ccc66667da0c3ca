package main

import (
	"context"
	"fmt"

	"github.com/andrewwillette/willette/internal/admin"
	"github.com/andrewwillette/willette/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login posts credentials and stores the returned token.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	if username == "" || password == "" {
		return fmt.Errorf("%w: --username and --password are required", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "username", username)

	state := r.controller.Drive(ctx, admin.State{}, admin.LoginMsg{Username: username, Password: password})
	if state.Err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, state.Err)
	}
	if !state.LoginSucceeded {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, state.Banner().Message)
	}

	r.logger.Info("token stored")
	return r.writePlain("✓ %s\n", state.Banner().Message)
}

// Logout removes the stored token.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if err := r.store.Clear(); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// Token reports whether a token is stored.
func (r *Runner) Token(ctx context.Context, cmd *cli.Command) error {
	token := r.store.Token()
	if token == "" {
		return r.writePlain("✗ No token stored\n")
	}
	if cmd.Bool("show") {
		return r.writePlain("%s\n", token)
	}
	return r.writePlain("✓ Token stored\n")
}
