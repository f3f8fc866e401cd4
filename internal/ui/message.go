package ui

import (
	"time"

	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/tasks"
)

// recipesLoadedMsg carries the recipe list fetched on startup.
type recipesLoadedMsg struct {
	recipes []models.Recipe
	err     error
}

// recipeLoadedMsg carries a recipe opened in the detail view.
type recipeLoadedMsg struct {
	id     int
	recipe *models.Recipe
	err    error
}

// submittedMsg reports a shopping list submission and the page it landed on.
type submittedMsg struct {
	count   int
	landing string
	err     error
}

// favoriteMsg reports a favorite toggle. previous is restored when the outcome fails.
type favoriteMsg struct {
	id       int
	previous bool
	outcome  tasks.Outcome
}

// ratedMsg reports a rating. previous is restored when the outcome fails.
type ratedMsg struct {
	id       int
	previous int
	outcome  tasks.Outcome
}

type cookedMsg struct {
	id      int
	outcome tasks.Outcome
}

// expireMsg re-renders once a notification may have expired.
type expireMsg time.Time

type openedMsg struct{ err error }

type progressUpdateMsg tasks.ProgressUpdate

// exportDoneMsg ends an export started from the selection.
type exportDoneMsg struct {
	path  string
	count int
	err   error
}
