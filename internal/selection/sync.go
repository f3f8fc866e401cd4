package selection

// Indicator is an element showing whether one recipe is selected, such as a recipe card.
type Indicator interface {
	RecipeID() int
	SetSelected(selected bool)
}

// Checkbox is a table row's selection checkbox.
type Checkbox interface {
	RecipeID() int
	SetChecked(checked bool)
}

// View is whatever currently displays recipes: a rendered page or the terminal UI.
type View interface {
	// SetShoppingBar shows or hides the shopping bar and sets its count.
	SetShoppingBar(visible bool, count int)
	// Indicators returns every element bound to a recipe id.
	Indicators() []Indicator
	// Checkboxes returns every row checkbox bound to a recipe id.
	Checkboxes() []Checkbox
}

// Synchronizer renders a [Store] onto a [View]. It only reads the store.
type Synchronizer struct {
	store *Store
	view  View
}

// NewSynchronizer binds store to view. view may be nil until a page is loaded; see [Synchronizer.Attach].
func NewSynchronizer(store *Store, view View) *Synchronizer {
	return &Synchronizer{store: store, view: view}
}

// Attach replaces the rendered view, e.g. after loading another page.
func (s *Synchronizer) Attach(view View) {
	s.view = view
}

// Sync makes every element of the view reflect the store. Calling it twice in a row is the same as once.
func (s *Synchronizer) Sync() {
	if s.view == nil {
		return
	}

	count := s.store.Len()
	s.view.SetShoppingBar(count > 0, count)

	for _, el := range s.view.Indicators() {
		el.SetSelected(s.store.Has(el.RecipeID()))
	}

	for _, box := range s.view.Checkboxes() {
		box.SetChecked(s.store.Has(box.RecipeID()))
	}
}
