package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// CategoryList prints the recipe families.
func (r *Runner) CategoryList(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	categories, err := client.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(categories, cmd.Bool("pretty"))
	}
	r.writeCategories(categories)
	return nil
}

// CategoryAdd creates a recipe family.
func (r *Runner) CategoryAdd(ctx context.Context, cmd *cli.Command) error {
	if r.actions == nil {
		return fmt.Errorf("%w: recipe client not initialized", shared.ErrServiceUnavailable)
	}

	outcome := r.actions.AddCategory(ctx, cmd.Args().First())
	if err := r.writeOutcome(outcome); err != nil {
		return err
	}
	r.writeCategories(outcome.Categories)
	return nil
}

// CategoryEdit renames a recipe family.
func (r *Runner) CategoryEdit(ctx context.Context, cmd *cli.Command) error {
	if r.actions == nil {
		return fmt.Errorf("%w: recipe client not initialized", shared.ErrServiceUnavailable)
	}

	id, err := categoryID(cmd.Args().First())
	if err != nil {
		return err
	}

	outcome := r.actions.EditCategory(ctx, id, cmd.Args().Get(1))
	if err := r.writeOutcome(outcome); err != nil {
		return err
	}
	r.writeCategories(outcome.Categories)
	return nil
}

// CategoryDelete deletes a recipe family after confirmation, unless --yes is given.
func (r *Runner) CategoryDelete(ctx context.Context, cmd *cli.Command) error {
	if r.actions == nil {
		return fmt.Errorf("%w: recipe client not initialized", shared.ErrServiceUnavailable)
	}

	id, err := categoryID(cmd.Args().First())
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		name := fmt.Sprintf("#%d", id)
		if categories, err := r.client.Categories(ctx); err == nil {
			for _, c := range categories {
				if c.ID == id {
					name = c.Name
				}
			}
		}
		if !r.confirm(fmt.Sprintf("Êtes-vous sûr de vouloir supprimer la famille %q ?", name)) {
			return r.writePlain("Suppression annulée\n")
		}
	}

	outcome := r.actions.DeleteCategory(ctx, id)
	if err := r.writeOutcome(outcome); err != nil {
		return err
	}
	r.writeCategories(outcome.Categories)
	return nil
}

func (r *Runner) writeCategories(categories []models.Category) {
	for _, c := range categories {
		r.writePlain("#%-4d %s\n", c.ID, c.Name)
	}
}

func categoryID(arg string) (int, error) {
	if arg == "" {
		return 0, fmt.Errorf("%w: category id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: category id %q", shared.ErrInvalidArgument, arg)
	}
	return id, nil
}
