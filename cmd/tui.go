package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sweetlist/internal/formatter"
	"github.com/desertthunder/sweetlist/internal/notify"
	"github.com/desertthunder/sweetlist/internal/repositories"
	"github.com/desertthunder/sweetlist/internal/selection"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/desertthunder/sweetlist/internal/tasks"
	"github.com/desertthunder/sweetlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive recipe browser.
//
// Each run is its own browsing session unless --session is given: the selection starts empty and is
// dropped on exit. With --ephemeral nothing touches the database.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	sessionID := cmd.String("session")
	var storage selection.Storage
	if cmd.Bool("ephemeral") {
		storage = repositories.NewMemoryStorage()
		if sessionID == "" {
			sessionID = "ephemeral"
		}
	} else {
		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		sessions := repositories.NewSessionRepository(db)
		if n, err := sessions.PurgeExpired(r.config.SessionTTL()); err != nil {
			r.logger.Warn("failed to purge sessions", "error", err)
		} else if n > 0 {
			r.logger.Info("sessions purged", "count", n)
		}

		if sessionID == "" {
			session, err := sessions.Create()
			if err != nil {
				return err
			}
			sessionID = session.ID
			defer func() {
				if err := sessions.End(sessionID); err != nil {
					r.logger.Warn("failed to end session", "session", sessionID, "error", err)
				}
			}()
		}
		storage = repositories.NewSessionStorage(db, sessionID)
	}

	logger := shared.WithLogger(r.logger, "session", sessionID)
	notes := notify.NewCenter(r.config.NotificationTTL())
	notes.Subscribe(func(n notify.Notification) { logger.Debug("notification", "level", n.Level, "message", n.Message) })

	model := ui.NewModel(ctx, ui.Options{
		Recipes: client,
		Actions: tasks.NewActions(client, notes, logger),
		Fetcher: tasks.NewFetcher(client, int(cmd.Int("workers")), logger),
		Submit:  client.SubmitShoppingList,
		Token:   client.Token,
		Storage: storage,
		Open: func(landing string) error {
			if !cmd.Bool("open") {
				return nil
			}
			return r.browse(landing)
		},
		Notes:        notes,
		ExportFormat: format,
		PerPage:      r.config.UI.PerPage,
		Logger:       logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
