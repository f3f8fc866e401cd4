package selection

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sweetlist/internal/shared"
)

// Navigator performs a recipe card's normal navigation.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// Submitter sends the shopping list as a navigating form submission.
type Submitter interface {
	SubmitShoppingList(ctx context.Context, ids []int, csrfToken string) error
}

// TokenSource returns the anti-forgery token, or "" when none is available.
type TokenSource func(ctx context.Context) string

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context, target string) error

func (f NavigatorFunc) Navigate(ctx context.Context, target string) error { return f(ctx, target) }

// SubmitterFunc adapts a function to [Submitter].
type SubmitterFunc func(ctx context.Context, ids []int, csrfToken string) error

func (f SubmitterFunc) SubmitShoppingList(ctx context.Context, ids []int, csrfToken string) error {
	return f(ctx, ids, csrfToken)
}

// DispatcherOpts contains the collaborators of a [Dispatcher].
type DispatcherOpts struct {
	Store        *Store
	Adapter      *Adapter
	Synchronizer *Synchronizer
	Navigator    Navigator
	Submitter    Submitter
	Token        TokenSource
	Logger       *log.Logger
}

// Dispatcher is the entry point for user interactions with the selection.
//
// Every mutation is followed by a save and a sync, in that order.
type Dispatcher struct {
	store  *Store
	saver  *Adapter
	sync   *Synchronizer
	nav    Navigator
	submit Submitter
	token  TokenSource
	logger *log.Logger
}

// NewDispatcher creates a Dispatcher. Store is required; a missing synchronizer or adapter skips that step.
func NewDispatcher(opts DispatcherOpts) *Dispatcher {
	if opts.Store == nil {
		opts.Store = NewStore(nil)
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	if opts.Token == nil {
		opts.Token = func(context.Context) string { return "" }
	}
	return &Dispatcher{
		store:  opts.Store,
		saver:  opts.Adapter,
		sync:   opts.Synchronizer,
		nav:    opts.Navigator,
		submit: opts.Submitter,
		token:  opts.Token,
		logger: opts.Logger,
	}
}

// Store returns the dispatcher's store.
func (d *Dispatcher) Store() *Store {
	return d.store
}

// Restore loads the persisted selection into the store and renders it.
//
// Call once per page load, before the first interaction.
func (d *Dispatcher) Restore() {
	if d.saver != nil {
		loaded := d.saver.Load()
		d.store.Clear()
		for id := range loaded {
			d.store.Add(id)
		}
	}
	d.render()
}

// OnCardActivate toggles id while selecting; otherwise it navigates to target without touching the selection.
func (d *Dispatcher) OnCardActivate(ctx context.Context, id int, target string) error {
	if d.store.Mode() == Selecting {
		selected := d.store.Toggle(id)
		d.logger.Debug("card toggled", "recipe", id, "selected", selected)
		d.commit()
		return nil
	}

	if d.nav == nil {
		return fmt.Errorf("%w: %s", shared.ErrNavigationUnavailable, target)
	}
	return d.nav.Navigate(ctx, target)
}

// OnRowCheckboxChange applies a row checkbox's new state.
func (d *Dispatcher) OnRowCheckboxChange(id int, checked bool) {
	if checked {
		d.store.Add(id)
	} else {
		d.store.Remove(id)
	}
	d.commit()
}

// OnSelectAllToggle selects or deselects every id in visible. Ids that are not visible keep their state.
func (d *Dispatcher) OnSelectAllToggle(checked bool, visible []int) {
	if checked {
		d.store.ReplaceAll(visible, visible)
	} else {
		d.store.ReplaceAll(visible, nil)
	}
	d.commit()
}

// OnClear empties the selection.
func (d *Dispatcher) OnClear() {
	d.store.Clear()
	d.commit()
}

// OnSubmitShoppingList submits every selected id, including ids selected on other pages.
//
// It does nothing when the selection is empty.
func (d *Dispatcher) OnSubmitShoppingList(ctx context.Context) error {
	if d.store.Len() == 0 {
		return nil
	}
	if d.submit == nil {
		return fmt.Errorf("%w: no shopping list submitter", shared.ErrServiceUnavailable)
	}

	ids := d.store.IDs()
	token := d.token(ctx)
	if token == "" {
		d.logger.Debug("submitting shopping list without anti-forgery token")
	}

	d.logger.Info("submitting shopping list", "recipes", len(ids))
	return d.submit.SubmitShoppingList(ctx, ids, token)
}

func (d *Dispatcher) commit() {
	if d.saver != nil {
		d.saver.Save(d.store.set)
	}
	d.render()
}

func (d *Dispatcher) render() {
	if d.sync != nil {
		d.sync.Sync()
	}
}
