package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andrewwillette/willette/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing, then initializes the token database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file exists", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		if err := r.writePlain("✓ Created %s\n", configPath); err != nil {
			return err
		}
	}

	path := r.config.Storage.Path
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	migrate := shared.RunMigrations
	if cmd.Bool("reset") {
		r.logger.Warn("resetting token database", "path", path)
		migrate = shared.ResetMigrations
	}

	r.logger.Info("running database migrations")
	if err := migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", path)

	baseURL, err := r.config.ResolveBaseURL()
	if err != nil {
		return err
	}

	return r.writePlain("✓ Token database ready at %s\nBackend: %s\n", path, baseURL)
}
