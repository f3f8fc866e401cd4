package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// RecipeFavorite toggles a recipe's favorite flag.
func (r *Runner) RecipeFavorite(ctx context.Context, cmd *cli.Command) error {
	id, err := r.recipeArg(cmd)
	if err != nil {
		return err
	}
	return r.writeOutcome(r.actions.ToggleFavorite(ctx, id))
}

// RecipeRate rates a recipe from 1 to 5.
func (r *Runner) RecipeRate(ctx context.Context, cmd *cli.Command) error {
	id, err := r.recipeArg(cmd)
	if err != nil {
		return err
	}

	arg := cmd.Args().Get(1)
	rating, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("%w: rating %q", shared.ErrInvalidArgument, arg)
	}
	return r.writeOutcome(r.actions.Rate(ctx, id, rating))
}

// RecipeCooked records that a recipe was cooked.
func (r *Runner) RecipeCooked(ctx context.Context, cmd *cli.Command) error {
	id, err := r.recipeArg(cmd)
	if err != nil {
		return err
	}
	return r.writeOutcome(r.actions.MarkCooked(ctx, id))
}

func (r *Runner) recipeArg(cmd *cli.Command) (int, error) {
	if r.actions == nil {
		return 0, fmt.Errorf("%w: recipe client not initialized", shared.ErrServiceUnavailable)
	}
	ids, err := parseIDs(cmd.Args().Slice()[:min(cmd.Args().Len(), 1)])
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("%w: recipe id", shared.ErrMissingArgument)
	}
	return ids[0], nil
}
