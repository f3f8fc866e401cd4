package formatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/sweetlist/internal/models"
)

// ShoppingList merges the ingredients of recipes. Lines with the same name and unit, compared without case,
// have their quantities added; the first spelling is kept.
func ShoppingList(recipes []models.Recipe) []models.Ingredient {
	type key struct{ name, unit string }

	index := map[key]int{}
	var items []models.Ingredient

	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			k := key{strings.ToLower(strings.TrimSpace(ing.Name)), strings.ToLower(strings.TrimSpace(ing.Unit))}
			if i, ok := index[k]; ok {
				items[i].Quantity += ing.Quantity
				continue
			}
			index[k] = len(items)
			items = append(items, ing)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items
}

// ExportShoppingList renders a checklist of ingredients, preceded by the recipes they come from
func ExportShoppingList(recipes []models.Recipe) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Liste de courses\n\n")
	for _, r := range recipes {
		fmt.Fprintf(&buf, "- %s\n", r.Title)
	}
	buf.WriteString("\n")

	for _, ing := range ShoppingList(recipes) {
		fmt.Fprintf(&buf, "- [ ] %s\n", ing)
	}
	return buf.Bytes()
}

// SelectionSummary describes a selection in one line, e.g. "3 recettes sélectionnées: Tarte, Moelleux, #12".
//
// Ids missing from titles are shown as "#id".
func SelectionSummary(ids []int, titles map[int]string) string {
	if len(ids) == 0 {
		return "Aucune recette sélectionnée"
	}

	names := make([]string, len(ids))
	for i, id := range ids {
		if t, ok := titles[id]; ok && t != "" {
			names[i] = t
		} else {
			names[i] = fmt.Sprintf("#%d", id)
		}
	}

	label := "recettes sélectionnées"
	if len(ids) == 1 {
		label = "recette sélectionnée"
	}
	return fmt.Sprintf("%d %s: %s", len(ids), label, strings.Join(names, ", "))
}
