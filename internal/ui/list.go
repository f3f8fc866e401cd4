package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/shared"
)

// recipeItem is one rendered recipe: a card in [Cards], a row in [Table].
//
// It points into the model's recipe slice so optimistic updates show without rebuilding the list.
type recipeItem struct {
	recipe   *models.Recipe
	selected bool
}

func newRecipeItem(r *models.Recipe) *recipeItem {
	return &recipeItem{recipe: r}
}

func (i *recipeItem) RecipeID() int { return i.recipe.ID }
func (i *recipeItem) SetSelected(selected bool) { i.selected = selected }
func (i *recipeItem) SetChecked(checked bool) { i.selected = checked }
func (i *recipeItem) FilterValue() string { return i.recipe.Title }

func (i *recipeItem) Title() string {
	title := i.recipe.Title
	if i.recipe.IsFavorite {
		title += " ★"
	}
	return title
}

func (i *recipeItem) Description() string {
	parts := []string{i.recipe.CategoryOrDefault()}
	if t := i.recipe.TotalTime(); t > 0 {
		parts = append(parts, shared.FormatMinutes(t))
	}
	if i.recipe.Rating > 0 {
		parts = append(parts, stars(i.recipe.Rating))
	}
	return strings.Join(parts, " • ")
}

// stars renders a 0..5 rating.
func stars(rating int) string {
	rating = min(max(rating, 0), 5)
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// recipeDelegate renders items as cards (highlighted when selected) or as checkbox rows.
type recipeDelegate struct {
	layout Layout
}

func (d recipeDelegate) Height() int { return 2 }
func (d recipeDelegate) Spacing() int { return 0 }
func (d recipeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d recipeDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	item, ok := li.(*recipeItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = styles.cursor.Render("> ")
	}

	var mark string
	switch {
	case d.layout == Table && item.selected:
		mark = "[x] "
	case d.layout == Table:
		mark = "[ ] "
	case item.selected:
		mark = "✓ "
	}

	title := mark + item.Title()
	if item.selected {
		title = styles.selected.Render(title)
	}
	fmt.Fprintf(w, "%s%s\n    %s", cursor, title, styles.help.Render(item.Description()))
}
