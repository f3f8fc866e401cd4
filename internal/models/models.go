// package models defines the recipe application's wire types
package models

import (
	"fmt"
	"strings"
)

// Recipe mirrors the JSON document served by /api/recipe/{id}.
type Recipe struct {
	ID              int          `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Tips            string       `json:"tips"`
	ImageFilename   string       `json:"image_filename"`
	PrepTime        int          `json:"prep_time"`
	CookTime        int          `json:"cook_time"`
	Servings        int          `json:"servings"`
	Difficulty      string       `json:"difficulty"`
	Category        string       `json:"category"`
	TotalCarbs      float64      `json:"total_carbs"`
	CarbsPerServing float64      `json:"carbs_per_serving"`
	Rating          int          `json:"rating"`
	IsFavorite      bool         `json:"is_favorite"`
	Ingredients     []Ingredient `json:"ingredients"`
	Steps           []Step       `json:"steps"`
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Step is one ordered instruction.
type Step struct {
	Order       int    `json:"order"`
	Instruction string `json:"instruction"`
	Duration    int    `json:"duration"` // minutes
}

// Category is a recipe family.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ActionResult is the response envelope of the mutating endpoints.
//
// Only Success and Message are guaranteed; the pointers are set by the endpoints that report new state.
type ActionResult struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	Category    *Category `json:"category,omitempty"`
	IsFavorite  *bool     `json:"is_favorite,omitempty"`
	Rating      *int      `json:"rating,omitempty"`
	CookedCount *int      `json:"cooked_count,omitempty"`
}

// TotalTime returns preparation plus cooking time in minutes.
func (r Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// Path returns the recipe's detail page path, the navigation target of its card.
func (r Recipe) Path() string {
	return RecipePath(r.ID)
}

// CategoryOrDefault returns the category, or "Autre" when the recipe has none.
func (r Recipe) CategoryOrDefault() string {
	if strings.TrimSpace(r.Category) == "" {
		return "Autre"
	}
	return r.Category
}

// RecipePath returns the detail page path of the recipe with the given id.
func RecipePath(id int) string {
	return fmt.Sprintf("/recipe/%d", id)
}

// String renders an ingredient the way the recipe table does: "quantity unit name".
func (i Ingredient) String() string {
	var parts []string
	if i.Quantity != 0 {
		parts = append(parts, FormatNumber(i.Quantity, 1))
	}
	if i.Unit != "" {
		parts = append(parts, i.Unit)
	}
	parts = append(parts, i.Name)
	return strings.Join(parts, " ")
}

// FormatNumber formats n with the given number of decimals and drops a trailing ".0…".
func FormatNumber(n float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, n)
	if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
		return s[:i]
	}
	return s
}
