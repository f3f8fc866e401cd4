package tasks

import (
	"fmt"

	"github.com/desertthunder/sweetlist/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchRecipes Phase = iota
	ExportRecipes
)

func (p Phase) String() string {
	switch p {
	case FetchRecipes:
		return "fetch_recipes"
	case ExportRecipes:
		return "export_recipes"
	default:
		return ""
	}
}

func fetchingRecipesUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecipes,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching %d recipes...", total),
	}
}

func fetchedRecipeUpdate(step, total int, r *models.Recipe) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecipes,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, r.Title),
		Data:    r,
	}
}

func fetchFailedUpdate(step, total, id int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecipes,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ #%d: %v", step, total, id, err),
	}
}

func exportedUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRecipes,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Exported %d recipes to %s", count, path),
		Data:    path,
	}
}
