package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/sweetlist/internal/formatter"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/notify"
	"github.com/desertthunder/sweetlist/internal/selection"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/desertthunder/sweetlist/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	SearchView
	DetailView
	ExportView
)

// RecipeSource loads recipes for display.
type RecipeSource interface {
	Recipes(ctx context.Context) ([]models.Recipe, error)
	Recipe(ctx context.Context, id int) (*models.Recipe, error)
}

// SubmitFunc sends the shopping list and returns the page it landed on.
type SubmitFunc func(ctx context.Context, ids []int, csrfToken string) (string, error)

// Options contains the TUI's collaborators. Only Recipes is required.
type Options struct {
	Recipes RecipeSource
	Actions *tasks.Actions
	Fetcher *tasks.Fetcher
	Submit  SubmitFunc
	// Token resolves the anti-forgery token inside the submit command.
	Token   selection.TokenSource
	Storage selection.Storage
	// Open is called with the landing URL after a successful submission.
	Open         func(string) error
	Notes        *notify.Center
	ExportFormat formatter.Format
	PerPage      int
	Logger       *log.Logger
}

// Model is the bubbletea model of the recipe browser. It is the [selection.View] its dispatcher renders to.
type Model struct {
	ctx    context.Context
	view   ViewState
	layout Layout

	source  RecipeSource
	actions *tasks.Actions
	fetcher *tasks.Fetcher
	submit  SubmitFunc
	token   selection.TokenSource
	open    func(string) error
	notes   *notify.Center
	format  formatter.Format
	logger  *log.Logger

	dispatcher *selection.Dispatcher
	sync       *selection.Synchronizer
	pending    []tea.Cmd

	recipes  []models.Recipe
	items    []*recipeItem
	browser  browser
	detail   *models.Recipe
	list     list.Model
	search   textinput.Model
	barShown bool
	barCount int

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	exportDone   chan exportDoneMsg

	loading  bool
	err      error
	width    int
	height   int
	showHelp bool
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model with the provided dependencies and restores the persisted selection.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	notes := opts.Notes
	if notes == nil && opts.Actions != nil {
		notes = opts.Actions.Notifications()
	}
	if notes == nil {
		notes = notify.NewCenter(notify.DefaultTTL)
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = formatter.FormatMarkdown
	}

	search := textinput.New()
	search.Placeholder = "Rechercher une recette"
	search.CharLimit = 80
	search.Cursor.SetMode(cursor.CursorStatic)

	m := &Model{
		ctx:     ctx,
		view:    ListView,
		layout:  Cards,
		source:  opts.Recipes,
		actions: opts.Actions,
		fetcher: opts.Fetcher,
		submit:  opts.Submit,
		token:   opts.Token,
		open:    opts.Open,
		notes:   notes,
		format:  opts.ExportFormat,
		logger:  opts.Logger,
		browser: newBrowser(opts.PerPage),
		search:  search,
		loading: true,
		help:    help.New(),
		keys:    newKeyMap(),
	}

	m.list = list.New(nil, recipeDelegate{layout: m.layout}, 80, 20)
	m.list.Title = "Recettes"
	m.list.SetShowFilter(false)
	m.list.SetFilteringEnabled(false)
	m.list.SetShowStatusBar(false)
	m.list.SetShowHelp(false)
	m.list.DisableQuitKeybindings()

	store := selection.NewStore(nil)
	var adapter *selection.Adapter
	if opts.Storage != nil {
		adapter = selection.NewAdapter(opts.Storage, m.logger)
	}

	// The dispatcher runs inside Update. Navigation and submission only queue commands; the
	// token is resolved by the submit command so no request blocks the event loop.
	m.sync = selection.NewSynchronizer(store, m)
	m.dispatcher = selection.NewDispatcher(selection.DispatcherOpts{
		Store:        store,
		Adapter:      adapter,
		Synchronizer: m.sync,
		Navigator:    selection.NavigatorFunc(m.navigate),
		Submitter:    selection.SubmitterFunc(m.queueSubmit),
		Logger:       m.logger,
	})
	m.dispatcher.Restore()
	return m
}

// Store returns the selection store.
func (m *Model) Store() *selection.Store {
	return m.dispatcher.Store()
}

// SetShoppingBar implements [selection.View].
func (m *Model) SetShoppingBar(visible bool, count int) {
	m.barShown = visible
	m.barCount = count
}

// Indicators implements [selection.View]: cards are indicators in the card layout.
func (m *Model) Indicators() []selection.Indicator {
	if m.layout != Cards {
		return nil
	}
	out := make([]selection.Indicator, len(m.items))
	for i, it := range m.items {
		out[i] = it
	}
	return out
}

// Checkboxes implements [selection.View]: rows carry checkboxes in the table layout.
func (m *Model) Checkboxes() []selection.Checkbox {
	if m.layout != Table {
		return nil
	}
	out := make([]selection.Checkbox, len(m.items))
	for i, it := range m.items {
		out[i] = it
	}
	return out
}

// Init initializes the TUI by fetching the recipe list.
func (m *Model) Init() tea.Cmd {
	return m.fetchRecipes()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(msg.Width-4, 20), max(msg.Height-10, 4))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ExportView:
			return m.handleExportKeys(msg)
		default:
			return m.handleListKeys(msg)
		}

	case recipesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("failed to load recipes", "error", msg.err)
			return m, nil
		}
		m.recipes = msg.recipes
		m.refresh()
		return m, nil

	case recipeLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error("failed to load recipe", "recipe", msg.id, "error", msg.err)
			m.notes.Danger(fmt.Sprintf("Impossible de charger la recette #%d", msg.id))
			if m.detail == nil {
				m.view = ListView
			}
			return m, m.expireLater()
		}
		if r := m.findRecipe(msg.id); r != nil {
			*r = *msg.recipe
			m.detail = r
		} else {
			m.detail = msg.recipe
		}
		return m, nil

	case submittedMsg:
		return m, m.handleSubmitted(msg)

	case favoriteMsg:
		if !msg.outcome.OK() {
			m.setFavorite(msg.id, msg.previous)
		} else if v := msg.outcome.Result.IsFavorite; v != nil {
			m.setFavorite(msg.id, *v)
		}
		return m, m.expireLater()

	case ratedMsg:
		if !msg.outcome.OK() {
			m.setRating(msg.id, msg.previous)
		} else if v := msg.outcome.Result.Rating; v != nil {
			m.setRating(msg.id, *v)
		}
		if msg.outcome.Notification.ID == "" {
			return m, nil
		}
		return m, m.expireLater()

	case cookedMsg:
		return m, m.expireLater()

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case exportDoneMsg:
		m.progressChan = nil
		m.exportDone = nil
		if msg.err != nil {
			m.logger.Error("export failed", "error", msg.err)
			m.notes.Danger("Erreur lors de l'export")
		} else {
			m.notes.Success(fmt.Sprintf("%d recette(s) exportée(s) dans %s", msg.count, msg.path))
		}
		m.view = ListView
		return m, m.expireLater()

	case openedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to open browser", "error", msg.err)
		}
		return m, nil

	case expireMsg:
		m.notes.Active(time.Time(msg))
		return m, nil
	}

	if m.view == SearchView {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Erreur: %v\n\nPress q to quit", m.err))
	}
	if m.loading && m.view == ListView {
		return "Chargement des recettes..."
	}

	var body string
	switch m.view {
	case DetailView:
		body = m.renderDetail()
	case ExportView:
		body = m.renderExport()
	default:
		body = m.renderList()
	}

	var b strings.Builder
	b.WriteString(body)
	if bar := m.renderShoppingBar(); bar != "" {
		b.WriteString("\n\n" + bar)
	}
	if notes := m.renderNotifications(); notes != "" {
		b.WriteString("\n\n" + notes)
	}
	b.WriteString("\n\n" + m.renderHelp())
	return b.String()
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.up):
		m.list.CursorUp()
	case key.Matches(msg, m.keys.down):
		m.list.CursorDown()
	case key.Matches(msg, m.keys.nextPage):
		if m.layout == Cards && m.browser.next(len(m.browser.filter(m.recipes, m.layout))) {
			m.refresh()
		}
	case key.Matches(msg, m.keys.prevPage):
		if m.layout == Cards && m.browser.prev() {
			m.refresh()
		}
	case key.Matches(msg, m.keys.enter):
		if it := m.current(); it != nil {
			if err := m.dispatcher.OnCardActivate(m.ctx, it.RecipeID(), it.recipe.Path()); err != nil {
				m.logger.Error("card activation failed", "recipe", it.RecipeID(), "error", err)
			}
		}
	case key.Matches(msg, m.keys.toggle):
		if it := m.current(); it != nil {
			m.dispatcher.OnRowCheckboxChange(it.RecipeID(), !it.selected)
		}
	case key.Matches(msg, m.keys.selectAll):
		m.dispatcher.OnSelectAllToggle(!m.allVisibleSelected(), m.visibleIDs())
	case key.Matches(msg, m.keys.clear):
		m.dispatcher.OnClear()
	case key.Matches(msg, m.keys.submit):
		if err := m.dispatcher.OnSubmitShoppingList(m.ctx); err != nil {
			m.logger.Error("shopping list unavailable", "error", err)
			m.notes.Warning("Envoi de la liste de courses indisponible")
			return m, m.expireLater()
		}
	case key.Matches(msg, m.keys.export):
		return m, m.startExport()
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.search.SetValue(m.browser.search)
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.category):
		m.browser.nextCategory(categoriesOf(m.recipes))
		m.refresh()
	case key.Matches(msg, m.keys.layout):
		m.setLayout(1 - m.layout)
	case key.Matches(msg, m.keys.dismiss):
		if n, ok := m.notes.Latest(time.Now()); ok {
			m.notes.Dismiss(n.ID)
		}
	default:
		if cmd := m.recipeAction(msg, m.currentRecipe()); cmd != nil {
			return m, cmd
		}
	}
	return m, m.takePending()
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.browser.setSearch(m.search.Value())
		m.search.Blur()
		m.view = ListView
		m.refresh()
		return m, nil
	case tea.KeyEsc:
		m.search.Blur()
		m.view = ListView
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.detail = nil
		return m, nil
	case key.Matches(msg, m.keys.dismiss):
		if n, ok := m.notes.Latest(time.Now()); ok {
			m.notes.Dismiss(n.ID)
		}
		return m, nil
	}
	return m, m.recipeAction(msg, m.detail)
}

func (m *Model) handleExportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	return m, nil
}

// recipeAction runs favorite, rating and cooked keys against r.
//
// Favorite and rating are shown immediately and reverted when the server does not confirm them.
func (m *Model) recipeAction(msg tea.KeyMsg, r *models.Recipe) tea.Cmd {
	if r == nil || m.actions == nil {
		return nil
	}

	id := r.ID
	switch {
	case key.Matches(msg, m.keys.favorite):
		previous := r.IsFavorite
		m.setFavorite(id, !previous)
		return func() tea.Msg {
			return favoriteMsg{id: id, previous: previous, outcome: m.actions.ToggleFavorite(m.ctx, id)}
		}
	case key.Matches(msg, m.keys.rate):
		rating, err := strconv.Atoi(msg.String())
		if err != nil {
			return nil
		}
		previous := r.Rating
		m.setRating(id, rating)
		return func() tea.Msg {
			return ratedMsg{id: id, previous: previous, outcome: m.actions.Rate(m.ctx, id, rating)}
		}
	case key.Matches(msg, m.keys.cooked):
		return func() tea.Msg {
			return cookedMsg{id: id, outcome: m.actions.MarkCooked(m.ctx, id)}
		}
	}
	return nil
}

// navigate opens a card's target in the detail view and queues the fetch.
func (m *Model) navigate(_ context.Context, target string) error {
	id, err := parseRecipeTarget(target)
	if err != nil {
		return err
	}
	m.view = DetailView
	m.detail = m.findRecipe(id)
	m.loading = true
	m.pending = append(m.pending, m.fetchRecipe(id))
	return nil
}

// queueSubmit defers the submission to a command.
func (m *Model) queueSubmit(_ context.Context, ids []int, csrfToken string) error {
	if m.submit == nil {
		return fmt.Errorf("%w: no shopping list submitter", shared.ErrServiceUnavailable)
	}
	m.pending = append(m.pending, m.submitShoppingList(ids, csrfToken))
	return nil
}

func (m *Model) handleSubmitted(msg submittedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Error("failed to submit shopping list", "error", msg.err)
		m.notes.Danger("Erreur lors de l'envoi de la liste de courses")
		return m.expireLater()
	}

	m.logger.Info("shopping list submitted", "recipes", msg.count, "landing", msg.landing)
	m.notes.Success(fmt.Sprintf("Liste de courses envoyée (%d recette(s))", msg.count))
	cmds := []tea.Cmd{m.expireLater()}
	if m.open != nil && msg.landing != "" {
		landing := msg.landing
		cmds = append(cmds, func() tea.Msg { return openedMsg{err: m.open(landing)} })
	}
	return tea.Batch(cmds...)
}

// takePending returns the commands queued by the dispatcher's collaborators.
func (m *Model) takePending() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *Model) fetchRecipes() tea.Cmd {
	return func() tea.Msg {
		if m.source == nil {
			return recipesLoadedMsg{err: fmt.Errorf("%w: no recipe source", shared.ErrServiceUnavailable)}
		}
		recipes, err := m.source.Recipes(m.ctx)
		return recipesLoadedMsg{recipes: recipes, err: err}
	}
}

func (m *Model) fetchRecipe(id int) tea.Cmd {
	return func() tea.Msg {
		if m.source == nil {
			return recipeLoadedMsg{id: id, err: fmt.Errorf("%w: no recipe source", shared.ErrServiceUnavailable)}
		}
		recipe, err := m.source.Recipe(m.ctx, id)
		return recipeLoadedMsg{id: id, recipe: recipe, err: err}
	}
}

func (m *Model) submitShoppingList(ids []int, csrfToken string) tea.Cmd {
	return func() tea.Msg {
		if csrfToken == "" && m.token != nil {
			csrfToken = m.token(m.ctx)
		}
		landing, err := m.submit(m.ctx, ids, csrfToken)
		return submittedMsg{count: len(ids), landing: landing, err: err}
	}
}

// startExport fetches and writes the selected recipes, streaming progress like a transfer.
func (m *Model) startExport() tea.Cmd {
	if m.fetcher == nil {
		return nil
	}
	ids := m.Store().IDs()
	if len(ids) == 0 {
		m.notes.Warning("Aucune recette sélectionnée")
		return m.expireLater()
	}

	m.view = ExportView
	m.progress = tasks.ProgressUpdate{}
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.exportDone = make(chan exportDoneMsg, 1)

	progress, done := m.progressChan, m.exportDone
	go func() {
		path, result, err := m.fetcher.ExportRecipes(m.ctx, progress, ids, m.format, "")
		msg := exportDoneMsg{path: path, err: err}
		if result != nil {
			msg.count = len(result.Recipes)
		}
		done <- msg
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.exportDone
	return func() tea.Msg {
		if progress == nil {
			return exportDoneMsg{err: fmt.Errorf("%w: no export running", shared.ErrServiceUnavailable)}
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

// expireLater wakes the model once the newest notification has expired.
func (m *Model) expireLater() tea.Cmd {
	return tea.Tick(m.notes.TTL(), func(t time.Time) tea.Msg { return expireMsg(t) })
}

// refresh rebuilds the visible items and renders the selection onto them.
func (m *Model) refresh() {
	visible := m.browser.visible(m.recipes, m.layout)
	m.items = make([]*recipeItem, len(visible))
	listItems := make([]list.Item, len(visible))
	for i, idx := range visible {
		m.items[i] = newRecipeItem(&m.recipes[idx])
		listItems[i] = m.items[i]
	}
	m.list.SetItems(listItems)
	m.list.Select(0)
	m.sync.Sync()
}

func (m *Model) setLayout(l Layout) {
	m.layout = l
	m.list.SetDelegate(recipeDelegate{layout: l})
	if l == Table {
		m.list.Title = "Toutes les recettes"
	} else {
		m.list.Title = "Recettes"
	}
	m.refresh()
}

func (m *Model) current() *recipeItem {
	it, _ := m.list.SelectedItem().(*recipeItem)
	return it
}

func (m *Model) currentRecipe() *models.Recipe {
	if it := m.current(); it != nil {
		return it.recipe
	}
	return nil
}

func (m *Model) visibleIDs() []int {
	ids := make([]int, len(m.items))
	for i, it := range m.items {
		ids[i] = it.RecipeID()
	}
	return ids
}

func (m *Model) allVisibleSelected() bool {
	if len(m.items) == 0 {
		return false
	}
	for _, it := range m.items {
		if !it.selected {
			return false
		}
	}
	return true
}

func (m *Model) findRecipe(id int) *models.Recipe {
	for i := range m.recipes {
		if m.recipes[i].ID == id {
			return &m.recipes[i]
		}
	}
	if m.detail != nil && m.detail.ID == id {
		return m.detail
	}
	return nil
}

func (m *Model) setFavorite(id int, favorite bool) {
	if r := m.findRecipe(id); r != nil {
		r.IsFavorite = favorite
	}
}

func (m *Model) setRating(id, rating int) {
	if r := m.findRecipe(id); r != nil {
		r.Rating = rating
	}
}

// parseRecipeTarget extracts the id from a recipe detail path such as "/recipe/7".
func parseRecipeTarget(target string) (int, error) {
	i := strings.LastIndex(target, "/recipe/")
	if i < 0 {
		return 0, fmt.Errorf("%w: not a recipe page: %q", shared.ErrInvalidArgument, target)
	}
	id, err := strconv.Atoi(strings.TrimSuffix(target[i+len("/recipe/"):], "/"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: not a recipe page: %q", shared.ErrInvalidArgument, target)
	}
	return id, nil
}
