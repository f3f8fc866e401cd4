package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/notify"
	"github.com/desertthunder/sweetlist/internal/shared"
)

// Fixed messages shown when a request fails before the server answers.
const (
	msgAddFailed      = "Erreur lors de l'ajout de la catégorie"
	msgEditFailed     = "Erreur lors de la modification de la catégorie"
	msgDeleteFailed   = "Erreur lors de la suppression de la catégorie"
	msgFavoriteFailed = "Erreur lors de la mise à jour des favoris"
	msgRateFailed     = "Erreur lors de l'enregistrement de la note"
	msgCookedFailed   = "Erreur lors de l'enregistrement"
	msgMissingName    = "Nom de catégorie manquant."
	msgInvalidName    = "Nouveau nom invalide ou identique."
)

// RecipeClient is the part of services.Client used by [Actions].
type RecipeClient interface {
	AddCategory(ctx context.Context, name string) (*models.ActionResult, error)
	EditCategory(ctx context.Context, id int, newName string) (*models.ActionResult, error)
	DeleteCategory(ctx context.Context, id int) (*models.ActionResult, error)
	ToggleFavorite(ctx context.Context, id int) (*models.ActionResult, error)
	Rate(ctx context.Context, id, rating int) (*models.ActionResult, error)
	MarkCooked(ctx context.Context, id int) (*models.ActionResult, error)
	Categories(ctx context.Context) ([]models.Category, error)
}

// Outcome is the result of one flow.
type Outcome struct {
	Result       *models.ActionResult
	Notification notify.Notification
	// Categories is the reloaded category list after a successful category change.
	Categories []models.Category
	Err        error
}

// OK reports whether the server accepted the change.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Result != nil && o.Result.Success
}

// Actions runs peripheral flows against a [RecipeClient].
type Actions struct {
	client RecipeClient
	notes  *notify.Center
	logger *log.Logger
}

// NewActions creates Actions. Nil notes or logger get a default center and a discarding logger.
func NewActions(client RecipeClient, notes *notify.Center, logger *log.Logger) *Actions {
	if notes == nil {
		notes = notify.NewCenter(notify.DefaultTTL)
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Actions{client: client, notes: notes, logger: logger}
}

// Notifications returns the center outcomes are pushed to.
func (a *Actions) Notifications() *notify.Center {
	return a.notes
}

// AddCategory creates a recipe family named name.
func (a *Actions) AddCategory(ctx context.Context, name string) Outcome {
	name = strings.TrimSpace(name)
	if name == "" {
		return Outcome{
			Notification: a.notes.Warning(msgMissingName),
			Err:          fmt.Errorf("%w: empty category name", shared.ErrInvalidInput),
		}
	}

	result, err := a.client.AddCategory(ctx, name)
	return a.categoryOutcome(ctx, "add category", result, err, msgAddFailed, notify.Warning)
}

// EditCategory renames the family with id.
func (a *Actions) EditCategory(ctx context.Context, id int, newName string) Outcome {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return Outcome{
			Notification: a.notes.Warning(msgInvalidName),
			Err:          fmt.Errorf("%w: empty category name", shared.ErrInvalidInput),
		}
	}

	result, err := a.client.EditCategory(ctx, id, newName)
	return a.categoryOutcome(ctx, "edit category", result, err, msgEditFailed, notify.Warning)
}

// DeleteCategory removes the family with id. Confirmation is the caller's job.
func (a *Actions) DeleteCategory(ctx context.Context, id int) Outcome {
	result, err := a.client.DeleteCategory(ctx, id)
	return a.categoryOutcome(ctx, "delete category", result, err, msgDeleteFailed, notify.Danger)
}

func (a *Actions) categoryOutcome(
	ctx context.Context,
	op string,
	result *models.ActionResult,
	err error,
	failure string,
	rejected notify.Level,
) Outcome {
	out := a.outcome(op, result, err, failure, rejected)
	if !out.OK() {
		return out
	}

	categories, err := a.client.Categories(ctx)
	if err != nil {
		a.logger.Warn("failed to reload categories", "error", err)
		return out
	}
	out.Categories = categories
	return out
}

// ToggleFavorite flips the favorite flag of recipe id.
func (a *Actions) ToggleFavorite(ctx context.Context, id int) Outcome {
	result, err := a.client.ToggleFavorite(ctx, id)
	return a.outcome("toggle favorite", result, err, msgFavoriteFailed, notify.Danger)
}

// Rate sets the rating of recipe id.
//
// A missing anti-forgery token aborts before any request with a logged error and no notification.
func (a *Actions) Rate(ctx context.Context, id, rating int) Outcome {
	result, err := a.client.Rate(ctx, id, rating)
	if errors.Is(err, shared.ErrMissingToken) {
		a.logger.Error("rating aborted", "recipe", id, "error", err)
		return Outcome{Err: err}
	}
	if errors.Is(err, shared.ErrInvalidArgument) {
		return Outcome{Notification: a.notes.Warning(fmt.Sprintf("Note invalide: %d", rating)), Err: err}
	}
	return a.outcome("rate recipe", result, err, msgRateFailed, notify.Danger)
}

// MarkCooked records that recipe id was cooked.
func (a *Actions) MarkCooked(ctx context.Context, id int) Outcome {
	result, err := a.client.MarkCooked(ctx, id)
	return a.outcome("mark cooked", result, err, msgCookedFailed, notify.Danger)
}

func (a *Actions) outcome(op string, result *models.ActionResult, err error, failure string, rejected notify.Level) Outcome {
	if err != nil {
		a.logger.Error(op+" failed", "error", err)
		return Outcome{Notification: a.notes.Danger(failure), Err: err}
	}
	if result == nil {
		err := fmt.Errorf("%w: empty response", shared.ErrUnexpectedResponse)
		a.logger.Error(op+" failed", "error", err)
		return Outcome{Notification: a.notes.Danger(failure), Err: err}
	}

	if result.Success {
		a.logger.Info(op, "message", result.Message)
		return Outcome{Result: result, Notification: a.notes.Success(result.Message)}
	}

	a.logger.Warn(op+" rejected", "message", result.Message)
	return Outcome{Result: result, Notification: a.notes.Push(rejected, result.Message)}
}
