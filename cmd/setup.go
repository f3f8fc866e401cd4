package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/sweetlist/internal/repositories"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase writes config.toml from the template when it is missing and brings the session database
// up to date. --rollback reverts the latest migration instead.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.setupConfig(cmd.String("config"))
	r.logger.Info("initializing database", "path", config.Database.Path)

	if cmd.Bool("rollback") {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		defer db.Close()

		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return r.writePlain("✓ Dernière migration annulée: %s\n", config.Database.Path)
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	sessions, err := repositories.NewSessionRepository(db).List()
	if err != nil {
		return err
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Base prête: %s (%d session(s))\n", config.Database.Path, len(sessions))
}

// setupConfig loads path, creating it from the embedded template first when it does not exist. Any failure
// falls back to the defaults.
func (r *Runner) setupConfig(path string) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			return shared.DefaultConfig()
		}
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return shared.DefaultConfig()
	}
	return config
}

// SetupCookie stores the session cookie of a logged-in browser, lifted from a "Copy as cURL" command.
func (r *Runner) SetupCookie(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	if curlHeaders.Cookie == "" {
		return fmt.Errorf("%w: no cookie found in cURL command", shared.ErrInvalidInput)
	}

	if outputPath == "" {
		outputPath = r.config.CookiePath()
	}
	outputPath = shared.ExpandHome(outputPath)

	if err := shared.SaveCookie(outputPath, curlHeaders.Cookie); err != nil {
		return err
	}
	r.logger.Info("cookie saved", "path", outputPath)

	r.writePlain("✓ Browser session saved to: %s\n", outputPath)
	if token := curlHeaders.CSRFToken(); token != "" {
		r.writePlain("Anti-forgery token found; set credentials.csrf_token = %q to pin it\n", token)
	}
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'sweetlist recipes list' to check the session\n")
	r.writePlain("2. Run 'sweetlist tui' to browse recipes and build a shopping list\n")

	return nil
}
