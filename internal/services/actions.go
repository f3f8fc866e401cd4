package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/selection"
	"github.com/desertthunder/sweetlist/internal/shared"
)

const (
	MinRating = 1
	MaxRating = 5
)

// CSRFToken returns the anti-forgery token.
//
// The configured override wins, then the token of the last fetched page. Otherwise the index page is
// fetched to find one. [shared.ErrMissingToken] is returned when no page carries a token.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	if c.override != "" {
		return c.override, nil
	}
	if token := c.cachedToken(); token != "" {
		return token, nil
	}

	if _, err := c.fetchPage(ctx, "/"); err != nil {
		return "", fmt.Errorf("failed to look up anti-forgery token: %w", err)
	}
	token := c.cachedToken()
	if token == "" {
		return "", shared.ErrMissingToken
	}
	return token, nil
}

// Token is a selection.TokenSource: it returns the token or "" when none is available.
func (c *Client) Token(ctx context.Context) string {
	token, err := c.CSRFToken(ctx)
	if err != nil {
		c.logger.Debug("no anti-forgery token", "error", err)
		return ""
	}
	return token
}

// tokenForm returns form values carrying the token when one is available.
func (c *Client) tokenForm(ctx context.Context) url.Values {
	form := url.Values{}
	if token := c.Token(ctx); token != "" {
		form.Set("csrf_token", token)
	}
	return form
}

// AddCategory creates a recipe family.
func (c *Client) AddCategory(ctx context.Context, name string) (*models.ActionResult, error) {
	form := c.tokenForm(ctx)
	form.Set("category_name", name)
	return c.postForm(ctx, "/settings/category/add", form)
}

// EditCategory renames a recipe family. The server also renames the category of its recipes.
func (c *Client) EditCategory(ctx context.Context, id int, newName string) (*models.ActionResult, error) {
	form := c.tokenForm(ctx)
	form.Set("new_name", newName)
	return c.postForm(ctx, fmt.Sprintf("/settings/category/edit/%d", id), form)
}

// DeleteCategory removes a recipe family.
func (c *Client) DeleteCategory(ctx context.Context, id int) (*models.ActionResult, error) {
	return c.postForm(ctx, fmt.Sprintf("/settings/category/delete/%d", id), c.tokenForm(ctx))
}

// ToggleFavorite flips the favorite flag of a recipe.
func (c *Client) ToggleFavorite(ctx context.Context, id int) (*models.ActionResult, error) {
	return c.postAction(ctx, fmt.Sprintf("/recipe/%d/favorite", id), c.Token(ctx), nil)
}

// MarkCooked records that a recipe was cooked.
func (c *Client) MarkCooked(ctx context.Context, id int) (*models.ActionResult, error) {
	return c.postAction(ctx, fmt.Sprintf("/recipe/%d/cooked", id), c.Token(ctx), nil)
}

// Rate sets the rating of a recipe. It sends nothing when no anti-forgery token is available.
func (c *Client) Rate(ctx context.Context, id, rating int) (*models.ActionResult, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d, got %d", shared.ErrInvalidArgument, MinRating, MaxRating, rating)
	}

	token, err := c.CSRFToken(ctx)
	if err != nil {
		return nil, err
	}

	return c.postAction(ctx, fmt.Sprintf("/recipe/%d/rate", id), token, map[string]int{"rating": rating})
}

// SubmitShoppingList posts the selected ids the way the shopping bar's form does and returns the URL the
// server redirected to.
func (c *Client) SubmitShoppingList(ctx context.Context, ids []int, csrfToken string) (string, error) {
	if len(ids) == 0 {
		return "", shared.ErrEmptySelection
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}

	form := url.Values{}
	form.Set("recipe_ids", strings.Join(parts, ","))
	if csrfToken != "" {
		form.Set("csrf_token", csrfToken)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/shopping-list", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit shopping list: %w", err)
	}
	defer resp.Body.Close()

	landing := resp.Request.URL.String()
	c.logger.Info("shopping list submitted", "recipes", len(ids), "landing", landing)
	return landing, nil
}

// ShoppingListSubmitter adapts [Client.SubmitShoppingList] to selection.Submitter. onLanded, when set,
// receives the landing URL.
func (c *Client) ShoppingListSubmitter(onLanded func(landing string)) selection.Submitter {
	return selection.SubmitterFunc(func(ctx context.Context, ids []int, csrfToken string) error {
		landing, err := c.SubmitShoppingList(ctx, ids, csrfToken)
		if err != nil {
			return err
		}
		if onLanded != nil {
			onLanded(landing)
		}
		return nil
	})
}
