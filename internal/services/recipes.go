package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/sweetlist/internal/dom"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/shared"
)

// IndexQuery selects one page of the index.
type IndexQuery struct {
	Page     int
	Category string
	Search   string
}

// Path renders the query as an index path. Page numbers start at 1.
func (q IndexQuery) Path() string {
	v := url.Values{}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

// Recipes lists every recipe of the logged-in user.
func (c *Client) Recipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := c.getJSON(ctx, "/api/recipes", &recipes); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Recipe retrieves a single recipe.
func (c *Client) Recipe(ctx context.Context, id int) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := c.getJSON(ctx, fmt.Sprintf("/api/recipe/%d", id), &recipe); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %d", shared.ErrRecipeNotFound, id)
		}
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// FetchPage retrieves any HTML page of the application, e.g. "/all-recipes".
func (c *Client) FetchPage(ctx context.Context, path string) (*dom.Page, error) {
	page, err := c.fetchPage(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	return page, nil
}

// Index retrieves one page of recipe cards.
func (c *Client) Index(ctx context.Context, q IndexQuery) (*dom.Page, error) {
	return c.FetchPage(ctx, q.Path())
}

// Categories lists the recipe families shown in the settings modal.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	page, err := c.FetchPage(ctx, "/")
	if err != nil {
		return nil, err
	}
	return page.Categories(), nil
}
