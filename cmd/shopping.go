package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/sweetlist/internal/formatter"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/desertthunder/sweetlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ShoppingListSubmit sends every selected recipe to the shopping list page. The selection is kept.
func (r *Runner) ShoppingListSubmit(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireClient(); err != nil {
		return err
	}

	d, closeFn, err := r.selection(cmd, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	if d.Store().Len() == 0 {
		return fmt.Errorf("%w: use 'sweetlist select add' first", shared.ErrEmptySelection)
	}

	if err := d.OnSubmitShoppingList(ctx); err != nil {
		return fmt.Errorf("failed to submit shopping list: %w", err)
	}
	return nil
}

// ShoppingListPreview merges the ingredients of the selected recipes into a checklist.
func (r *Runner) ShoppingListPreview(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	d, closeFn, err := r.selection(cmd, nil)
	if err != nil {
		return err
	}
	ids := d.Store().IDs()
	closeFn()

	if len(ids) == 0 {
		return shared.ErrEmptySelection
	}

	fetcher := tasks.NewFetcher(client, 0, shared.WithLogger(r.logger, "component", "fetcher"))
	result, err := fetcher.FetchRecipes(ctx, nil, ids)
	if err != nil {
		return err
	}

	var errs []error
	for id, ferr := range result.Failed {
		errs = append(errs, fmt.Errorf("#%d: %w", id, ferr))
	}
	if err := errors.Join(errs...); err != nil {
		r.logger.Warn("some recipes could not be loaded", "error", err)
	}

	out := formatter.ExportShoppingList(result.Recipes)
	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, out, 0644); err != nil {
			return fmt.Errorf("failed to write shopping list: %w", err)
		}
		return r.writePlain("✓ Liste de courses écrite dans %s\n", path)
	}
	return r.writeMarkdown(out, cmd.Bool("render"))
}
