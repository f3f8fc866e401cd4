package ui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/desertthunder/sweetlist/internal/models"
)

// PerPage matches the index page's pagination.
const PerPage = 9

// Layout is how the list renders recipes.
type Layout int

const (
	// Cards is the paginated index: newest first, nine per page.
	Cards Layout = iota
	// Table is the all-recipes table: every match, sorted by category then title, with row checkboxes.
	Table
)

func (l Layout) String() string {
	if l == Table {
		return "table"
	}
	return "cards"
}

// browser holds the index filters and current page.
type browser struct {
	perPage  int
	page     int
	category string
	search   string
}

func newBrowser(perPage int) browser {
	if perPage <= 0 {
		perPage = PerPage
	}
	return browser{perPage: perPage, page: 1}
}

// matches reports whether r passes the category filter (exact) and title search (case-insensitive substring).
func (b browser) matches(r models.Recipe) bool {
	if b.category != "" && r.Category != b.category {
		return false
	}
	if b.search != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(b.search)) {
		return false
	}
	return true
}

// filter returns the indexes of the matching recipes in layout order.
//
// Cards keep the order the recipes were served in, newest first. Table sorts by category then title.
func (b browser) filter(recipes []models.Recipe, layout Layout) []int {
	var out []int
	for i, r := range recipes {
		if b.matches(r) {
			out = append(out, i)
		}
	}
	if layout == Table {
		slices.SortStableFunc(out, func(x, y int) int {
			return cmp.Or(
				cmp.Compare(recipes[x].CategoryOrDefault(), recipes[y].CategoryOrDefault()),
				cmp.Compare(strings.ToLower(recipes[x].Title), strings.ToLower(recipes[y].Title)),
			)
		})
	}
	return out
}

// pages returns the page count for n matches; an empty result still has one page.
func (b browser) pages(n int) int {
	if n == 0 {
		return 1
	}
	return (n + b.perPage - 1) / b.perPage
}

// visible returns the indexes rendered for the current page. The table shows every match.
func (b *browser) visible(recipes []models.Recipe, layout Layout) []int {
	matched := b.filter(recipes, layout)
	if layout == Table {
		return matched
	}

	b.page = min(max(b.page, 1), b.pages(len(matched)))
	start := (b.page - 1) * b.perPage
	end := min(start+b.perPage, len(matched))
	if start >= end {
		return nil
	}
	return matched[start:end]
}

func (b *browser) next(total int) bool {
	if b.page >= b.pages(total) {
		return false
	}
	b.page++
	return true
}

func (b *browser) prev() bool {
	if b.page <= 1 {
		return false
	}
	b.page--
	return true
}

// setSearch and setCategory reset to the first page, like submitting the index filter form.
func (b *browser) setSearch(q string) {
	b.search = strings.TrimSpace(q)
	b.page = 1
}

func (b *browser) setCategory(c string) {
	b.category = c
	b.page = 1
}

// nextCategory cycles through "" (all) and each category in order.
func (b *browser) nextCategory(categories []string) {
	if len(categories) == 0 {
		b.setCategory("")
		return
	}
	i := slices.Index(categories, b.category)
	switch {
	case b.category == "":
		b.setCategory(categories[0])
	case i < 0 || i == len(categories)-1:
		b.setCategory("")
	default:
		b.setCategory(categories[i+1])
	}
}

// categoriesOf returns the distinct non-empty categories, sorted.
func categoriesOf(recipes []models.Recipe) []string {
	var out []string
	for _, r := range recipes {
		if r.Category != "" && !slices.Contains(out, r.Category) {
			out = append(out, r.Category)
		}
	}
	slices.Sort(out)
	return out
}
