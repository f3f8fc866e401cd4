package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/desertthunder/sweetlist/internal/formatter"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/services"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/desertthunder/sweetlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// RecipesList prints recipes. With --page it reads the server's paginated index instead of the JSON API.
func (r *Runner) RecipesList(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	category := cmd.String("category")
	search := cmd.String("search")

	if page := int(cmd.Int("page")); page > 0 {
		doc, err := client.Index(ctx, services.IndexQuery{Page: page, Category: category, Search: search})
		if err != nil {
			return fmt.Errorf("failed to fetch index page: %w", err)
		}
		cards := doc.Cards()
		if cmd.Bool("json") {
			return r.writeJSON(cards, cmd.Bool("pretty"))
		}
		r.writePlainHeader(fmt.Sprintf("Page %d: %d recette(s)", page, len(cards)))
		for _, c := range cards {
			r.writePlain("#%-5d %s [%s]\n", c.ID, c.Title, c.Category)
		}
		return nil
	}

	recipes, err := client.Recipes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch recipes: %w", err)
	}
	recipes = filterRecipes(recipes, category, search)

	if cmd.Bool("json") {
		return r.writeJSON(recipes, cmd.Bool("pretty"))
	}

	out, err := formatter.ExportToText(recipes)
	if err != nil {
		return err
	}
	return r.writePlain("%s", out)
}

// RecipesShow prints one recipe with its ingredients and steps.
func (r *Runner) RecipesShow(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	ids, err := parseIDs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return fmt.Errorf("%w: exactly one recipe id", shared.ErrMissingArgument)
	}

	recipe, err := client.Recipe(ctx, ids[0])
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(recipe, cmd.Bool("pretty"))
	}

	out, err := formatter.ExportToMarkdown([]models.Recipe{*recipe}, recipe.Title)
	if err != nil {
		return err
	}
	return r.writeMarkdown(out, cmd.Bool("render"))
}

// RecipesExport fetches recipes concurrently and writes them to a file.
//
// Ids come from the arguments, or from the session's selection with --selected.
func (r *Runner) RecipesExport(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireClient()
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	ids, err := parseIDs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if cmd.Bool("selected") {
		sel, closeFn, err := r.selection(cmd, nil)
		if err != nil {
			return err
		}
		ids = append(ids, sel.Store().IDs()...)
		closeFn()
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: give recipe ids or --selected", shared.ErrEmptySelection)
	}

	fetcher := tasks.NewFetcher(client, int(cmd.Int("workers")), shared.WithLogger(r.logger, "component", "fetcher"))
	progress := make(chan tasks.ProgressUpdate, len(ids)+1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	path, result, err := fetcher.ExportRecipes(ctx, progress, ids, format, cmd.String("output"))
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	for id, ferr := range result.Failed {
		r.writePlain("✗ #%d: %v\n", id, ferr)
	}
	r.writePlain("✓ %d recette(s) exportée(s) dans %s\n", len(result.Recipes), path)
	return nil
}

// filterRecipes applies the index filters: exact category, case-insensitive title substring.
func filterRecipes(recipes []models.Recipe, category, search string) []models.Recipe {
	search = strings.ToLower(strings.TrimSpace(search))
	if category == "" && search == "" {
		return recipes
	}

	out := make([]models.Recipe, 0, len(recipes))
	for _, rec := range recipes {
		if category != "" && rec.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Title), search) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// parseIDs parses recipe ids given as separate arguments or comma-separated lists.
func parseIDs(args []string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("%w: recipe id %q", shared.ErrInvalidArgument, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
