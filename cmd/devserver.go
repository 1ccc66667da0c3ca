package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/andrewwillette/willette/internal/models"
	"github.com/andrewwillette/willette/internal/server"
	"github.com/andrewwillette/willette/internal/shared"
	"github.com/urfave/cli/v3"
)

// DevServer serves an in-memory backend until interrupted.
func (r *Runner) DevServer(ctx context.Context, cmd *cli.Command) error {
	conf := r.config.DevServer

	seed, err := readSeed(cmd.String("seed"))
	if err != nil {
		return err
	}

	backend := server.NewBackend(server.BackendOpts{
		Username: conf.Username,
		Password: conf.Password,
		URLs:     seed,
		Logger:   r.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port))
	if err := r.writePlain("→ Serving %d urls at http://%s (login as %q)\n", len(seed), addr, conf.Username); err != nil {
		return err
	}
	return server.Serve(ctx, addr, server.NewHandler(backend), r.logger)
}

func readSeed(path string) ([]models.SoundcloudURL, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var urls []models.SoundcloudURL
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("%w: seed file: %v", shared.ErrInvalidInput, err)
	}
	return urls, nil
}
