package models

import (
	"encoding/json"
	"testing"
)

func TestRecipe(t *testing.T) {
	t.Run("decodes the api document", func(t *testing.T) {
		doc := `{"id": 4, "title": "Tarte", "prep_time": 20, "cook_time": 35, "servings": 6,
			"category": "", "total_carbs": 180.5, "carbs_per_serving": 30.08,
			"ingredients": [{"name": "farine", "quantity": 250, "unit": "g"}],
			"steps": [{"order": 1, "instruction": "Mélanger", "duration": 5}]}`

		var r Recipe
		if err := json.Unmarshal([]byte(doc), &r); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}

		if r.TotalTime() != 55 {
			t.Errorf("TotalTime() = %d, want 55", r.TotalTime())
		}
		if r.CategoryOrDefault() != "Autre" {
			t.Errorf("CategoryOrDefault() = %q, want Autre", r.CategoryOrDefault())
		}
		if r.Path() != "/recipe/4" {
			t.Errorf("Path() = %q", r.Path())
		}
		if got := r.Ingredients[0].String(); got != "250 g farine" {
			t.Errorf("Ingredient.String() = %q", got)
		}
	})

	t.Run("ActionResult optional fields", func(t *testing.T) {
		var res ActionResult
		if err := json.Unmarshal([]byte(`{"success": true, "message": "ok", "rating": 4}`), &res); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}
		if res.Rating == nil || *res.Rating != 4 {
			t.Errorf("expected rating 4, got %v", res.Rating)
		}
		if res.IsFavorite != nil {
			t.Error("expected is_favorite to be absent")
		}
	})
}

func TestFormatNumber(t *testing.T) {
	tt := []struct {
		in       float64
		decimals int
		want     string
	}{
		{2, 1, "2"},
		{2.5, 1, "2.5"},
		{30.08, 1, "30.1"},
		{0.25, 2, "0.25"},
		{10, 2, "10"},
	}
	for _, tc := range tt {
		if got := FormatNumber(tc.in, tc.decimals); got != tc.want {
			t.Errorf("FormatNumber(%v, %d) = %q, want %q", tc.in, tc.decimals, got, tc.want)
		}
	}
}
