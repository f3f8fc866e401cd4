package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/sweetlist/internal/services"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	cookie, err := shared.LoadCookie(config.CookiePath())
	if err != nil {
		logger.Debug("no browser session", "error", err)
	}

	client, err := services.NewClient(services.ClientOpts{
		BaseURL:   config.App.BaseURL,
		Timeout:   config.HTTPTimeout(),
		Cookie:    cookie,
		CSRFToken: config.Credentials.CSRFToken,
		RateLimit: config.HTTP.RateLimit,
		Logger:    shared.WithLogger(logger, "component", "client"),
	})
	if err != nil {
		logger.Fatalf("failed to create client: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Client:     client,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:    "sweetlist",
		Usage:   "Browse recipes and build shopping lists from the terminal",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Session holding the selection (default: session.id from config)",
			},
		},
		Before:   runner.Before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
