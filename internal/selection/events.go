package selection

import (
	"context"
	"fmt"

	"github.com/desertthunder/sweetlist/internal/shared"
)

// Event is a user interaction routed to a [Dispatcher] by [Dispatcher.Handle].
//
// Views translate their own input (key presses, form fields) into these values instead of matching
// element names.
type Event interface {
	event()
}

// CardActivated is a click or enter on a recipe card.
type CardActivated struct {
	RecipeID int
	Target   string
}

// RowCheckboxChanged is a row checkbox flipping to Checked.
type RowCheckboxChanged struct {
	RecipeID int
	Checked  bool
}

// SelectAllToggled is the header checkbox over the currently rendered recipes.
type SelectAllToggled struct {
	Checked bool
	Visible []int
}

// SelectionCleared is the shopping bar's clear action.
type SelectionCleared struct{}

// ShoppingListRequested is the shopping bar's submit action.
type ShoppingListRequested struct{}

func (CardActivated) event()         {}
func (RowCheckboxChanged) event()    {}
func (SelectAllToggled) event()      {}
func (SelectionCleared) event()      {}
func (ShoppingListRequested) event() {}

// Handle routes ev to the matching entry point.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case CardActivated:
		return d.OnCardActivate(ctx, ev.RecipeID, ev.Target)
	case RowCheckboxChanged:
		d.OnRowCheckboxChange(ev.RecipeID, ev.Checked)
	case SelectAllToggled:
		d.OnSelectAllToggle(ev.Checked, ev.Visible)
	case SelectionCleared:
		d.OnClear()
	case ShoppingListRequested:
		return d.OnSubmitShoppingList(ctx)
	default:
		return fmt.Errorf("%w: unknown event %T", shared.ErrInvalidArgument, ev)
	}
	return nil
}
