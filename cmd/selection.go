package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sweetlist/internal/dom"
	"github.com/desertthunder/sweetlist/internal/formatter"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/repositories"
	"github.com/desertthunder/sweetlist/internal/selection"
	"github.com/desertthunder/sweetlist/internal/services"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// selection builds a dispatcher over the session's persisted selection.
//
// Navigation opens the recipe page in the browser; submission posts the shopping list and prints where it
// landed. view may be nil when no page is rendered. The returned func closes the database.
func (r *Runner) selection(cmd *cli.Command, view selection.View) (*selection.Dispatcher, func(), error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}

	sessionID := r.sessionID(cmd)
	logger := shared.WithLogger(r.logger, "session", sessionID)
	storage := repositories.NewSessionStorage(db, sessionID)
	store := selection.NewStore(nil)

	opts := selection.DispatcherOpts{
		Store:        store,
		Adapter:      selection.NewAdapter(storage, logger),
		Synchronizer: selection.NewSynchronizer(store, view),
		Logger:       logger,
	}
	if r.client != nil {
		client := r.client
		opts.Navigator = selection.NavigatorFunc(func(_ context.Context, target string) error {
			return r.browse(client.URL(target))
		})
		opts.Submitter = client.ShoppingListSubmitter(func(landing string) {
			r.writePlain("✓ Liste de courses envoyée: %s\n", landing)
			if cmd.Bool("open") {
				if err := r.browse(landing); err != nil {
					r.logger.Warn("failed to open browser", "error", err)
				}
			}
		})
		opts.Token = client.Token
	}

	d := selection.NewDispatcher(opts)
	d.Restore()
	return d, func() { db.Close() }, nil
}

// SelectAdd checks the row checkbox of every given recipe.
func (r *Runner) SelectAdd(ctx context.Context, cmd *cli.Command) error {
	return r.checkboxes(ctx, cmd, func(*selection.Store, int) bool { return true })
}

// SelectRemove unchecks the row checkbox of every given recipe.
func (r *Runner) SelectRemove(ctx context.Context, cmd *cli.Command) error {
	return r.checkboxes(ctx, cmd, func(*selection.Store, int) bool { return false })
}

// SelectToggle flips the row checkbox of every given recipe.
func (r *Runner) SelectToggle(ctx context.Context, cmd *cli.Command) error {
	return r.checkboxes(ctx, cmd, func(s *selection.Store, id int) bool { return !s.Has(id) })
}

func (r *Runner) checkboxes(ctx context.Context, cmd *cli.Command, checked func(*selection.Store, int) bool) error {
	ids, err := parseIDs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: recipe ids", shared.ErrMissingArgument)
	}

	d, closeFn, err := r.selection(cmd, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	for _, id := range ids {
		if err := d.Handle(ctx, selection.RowCheckboxChanged{RecipeID: id, Checked: checked(d.Store(), id)}); err != nil {
			return err
		}
	}
	return r.writeSelection(ctx, d.Store())
}

// SelectOpen activates a recipe card: it opens the recipe page while nothing is selected and toggles the
// recipe otherwise.
func (r *Runner) SelectOpen(ctx context.Context, cmd *cli.Command) error {
	ids, err := parseIDs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return fmt.Errorf("%w: exactly one recipe id", shared.ErrMissingArgument)
	}

	d, closeFn, err := r.selection(cmd, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	mode := d.Store().Mode()
	if err := d.Handle(ctx, selection.CardActivated{RecipeID: ids[0], Target: models.RecipePath(ids[0])}); err != nil {
		return err
	}
	if mode == selection.Idle {
		return r.writePlain("Ouverture de la recette #%d\n", ids[0])
	}
	return r.writeSelection(ctx, d.Store())
}

// SelectClear empties the selection.
func (r *Runner) SelectClear(ctx context.Context, cmd *cli.Command) error {
	d, closeFn, err := r.selection(cmd, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := d.Handle(ctx, selection.SelectionCleared{}); err != nil {
		return err
	}
	return r.writeSelection(ctx, d.Store())
}

// SelectShow prints the selection.
func (r *Runner) SelectShow(ctx context.Context, cmd *cli.Command) error {
	d, closeFn, err := r.selection(cmd, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	if cmd.Bool("json") {
		return r.writeJSON(d.Store().IDs(), false)
	}
	return r.writeSelection(ctx, d.Store())
}

// SelectAll checks the header checkbox over the recipes of one index page.
func (r *Runner) SelectAll(ctx context.Context, cmd *cli.Command) error {
	return r.selectPage(ctx, cmd, true)
}

// SelectNone unchecks the header checkbox over the recipes of one index page.
func (r *Runner) SelectNone(ctx context.Context, cmd *cli.Command) error {
	return r.selectPage(ctx, cmd, false)
}

// selectPage fetches an index page, renders the selection onto it and applies the header checkbox to the
// recipes it shows. Recipes selected on other pages are kept.
func (r *Runner) selectPage(ctx context.Context, cmd *cli.Command, checked bool) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	page, err := client.Index(ctx, services.IndexQuery{
		Page:     int(cmd.Int("page")),
		Category: cmd.String("category"),
		Search:   cmd.String("search"),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch index page: %w", err)
	}

	d, closeFn, err := r.selection(cmd, page)
	if err != nil {
		return err
	}
	defer closeFn()

	visible := page.RecipeIDs()
	if err := d.Handle(ctx, selection.SelectAllToggled{Checked: checked, Visible: visible}); err != nil {
		return err
	}

	r.logger.Debug("page synchronized", "visible", len(visible), "selected", selectedOn(page))
	return r.writeSelection(ctx, d.Store())
}

// writeSelection prints the shopping bar summary, with titles when the recipe list can be fetched.
func (r *Runner) writeSelection(ctx context.Context, store *selection.Store) error {
	ids := store.IDs()
	titles := map[int]string{}
	if len(ids) > 0 && r.client != nil {
		if recipes, err := r.client.Recipes(ctx); err == nil {
			for _, rec := range recipes {
				titles[rec.ID] = rec.Title
			}
		} else {
			r.logger.Debug("recipe titles unavailable", "error", err)
		}
	}
	return r.writePlain("%s\n", formatter.SelectionSummary(ids, titles))
}

// selectedOn counts the cards a page shows as selected.
func selectedOn(page *dom.Page) int {
	n := 0
	for _, c := range page.Cards() {
		if c.Selected {
			n++
		}
	}
	return n
}
