package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/sweetlist/internal/repositories"
	"github.com/urfave/cli/v3"
)

// SessionNew starts a session and prints its id, for use with --session.
func (r *Runner) SessionNew(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := repositories.NewSessionRepository(db).Create()
	if err != nil {
		return err
	}
	r.logger.Info("session started", "session", session.ID)
	return r.writePlain("%s\n", session.ID)
}

// SessionEnd ends a session and drops its selection, like closing a browser tab.
func (r *Runner) SessionEnd(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		id = r.sessionID(cmd)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewSessionRepository(db).End(id); err != nil {
		return err
	}
	r.logger.Info("session ended", "session", id)
	return r.writePlain("✓ Session %s terminée\n", id)
}

// SessionList prints the stored sessions, most recently used first.
func (r *Runner) SessionList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := repositories.NewSessionRepository(db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(sessions, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%d session(s)", len(sessions)))
	for _, s := range sessions {
		r.writePlain("%-36s  %d élément(s)  %s\n", s.ID, s.Items, s.TouchedAt.Local().Format(time.DateTime))
	}
	return nil
}

// SessionPurge deletes sessions idle for longer than --older-than, or session.ttl from the config.
func (r *Runner) SessionPurge(ctx context.Context, cmd *cli.Command) error {
	ttl := r.config.SessionTTL()
	if cmd.IsSet("older-than") {
		ttl = cmd.Duration("older-than")
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := repositories.NewSessionRepository(db).PurgeExpired(ttl)
	if err != nil {
		return err
	}
	r.logger.Info("sessions purged", "count", n, "ttl", ttl)
	return r.writePlain("✓ %d session(s) supprimée(s)\n", n)
}
