package main

import (
	"context"
	"errors"
	"os"

	"github.com/andrewwillette/willette/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := runner.app()
	app.Version = "0.3.0"

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// app builds the root command for r.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:  "willette",
		Usage: "Manage the soundcloud urls shown on andrewwillette.com",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep the login token in memory instead of the database",
			},
		},
		Before:   r.Before,
		After:    r.After,
		Commands: r.register(),
	}
}
