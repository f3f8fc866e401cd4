package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/notify"
	"github.com/desertthunder/sweetlist/internal/selection"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/desertthunder/sweetlist/internal/tasks"
	tu "github.com/desertthunder/sweetlist/internal/testing"
	"github.com/google/go-cmp/cmp"
)

type fakeSource struct {
	recipes []models.Recipe
	err     error
	fetched []int
}

func (f *fakeSource) Recipes(context.Context) ([]models.Recipe, error) {
	return slices.Clone(f.recipes), f.err
}

func (f *fakeSource) Recipe(_ context.Context, id int) (*models.Recipe, error) {
	f.fetched = append(f.fetched, id)
	for _, r := range f.recipes {
		if r.ID == id {
			r.Ingredients = []models.Ingredient{{Name: "farine", Quantity: 200, Unit: "g"}}
			return &r, nil
		}
	}
	return nil, shared.ErrRecipeNotFound
}

type fakeActions struct {
	result *models.ActionResult
	err    error
	calls  []string
}

func (f *fakeActions) record(call string) (*models.ActionResult, error) {
	f.calls = append(f.calls, call)
	return f.result, f.err
}

func (f *fakeActions) AddCategory(context.Context, string) (*models.ActionResult, error) {
	return f.record("add")
}

func (f *fakeActions) EditCategory(context.Context, int, string) (*models.ActionResult, error) {
	return f.record("edit")
}

func (f *fakeActions) DeleteCategory(context.Context, int) (*models.ActionResult, error) {
	return f.record("delete")
}

func (f *fakeActions) ToggleFavorite(_ context.Context, id int) (*models.ActionResult, error) {
	return f.record(fmt.Sprintf("favorite %d", id))
}

func (f *fakeActions) Rate(_ context.Context, id, rating int) (*models.ActionResult, error) {
	return f.record(fmt.Sprintf("rate %d %d", id, rating))
}

func (f *fakeActions) MarkCooked(_ context.Context, id int) (*models.ActionResult, error) {
	return f.record(fmt.Sprintf("cooked %d", id))
}

func (f *fakeActions) Categories(context.Context) ([]models.Category, error) {
	return nil, nil
}

type submission struct {
	ids   []int
	token string
}

type fixture struct {
	model     *Model
	source    *fakeSource
	actions   *fakeActions
	storage   *tu.MapStorage
	submitted []submission
	submitErr error
	opened    []string
	notes     []notify.Notification
}

func newFixture(t *testing.T, recipes []models.Recipe) *fixture {
	t.Helper()

	f := &fixture{
		source:  &fakeSource{recipes: recipes},
		actions: &fakeActions{},
		storage: tu.NewMapStorage(),
	}
	f.model = f.build(t)
	return f
}

func (f *fixture) build(t *testing.T) *Model {
	t.Helper()

	center := notify.NewCenter(5 * time.Millisecond)
	center.Subscribe(func(n notify.Notification) { f.notes = append(f.notes, n) })

	m := NewModel(context.Background(), Options{
		Recipes: f.source,
		Actions: tasks.NewActions(f.actions, center, nil),
		Submit: func(_ context.Context, ids []int, token string) (string, error) {
			f.submitted = append(f.submitted, submission{ids: slices.Clone(ids), token: token})
			return "http://127.0.0.1:5000/shopping-list", f.submitErr
		},
		Token:   func(context.Context) string { return "tok-ui" },
		Storage: f.storage,
		Open: func(u string) error {
			f.opened = append(f.opened, u)
			return nil
		},
	})
	run(t, m, m.Init())
	return m
}

// run executes cmd and feeds its messages back into m until no command is left.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}

	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			run(t, m, c)
		}
	case tea.QuitMsg:
	default:
		_, next := m.Update(msg)
		run(t, m, next)
	}
}

func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		run(t, m, cmd)
	}
}

func (f *fixture) persisted() selection.Set {
	return selection.NewAdapter(f.storage, nil).Load()
}

func selectedItems(m *Model) []int {
	var out []int
	for _, it := range m.items {
		if it.selected {
			out = append(out, it.RecipeID())
		}
	}
	return out
}

func TestModelBrowsing(t *testing.T) {
	t.Run("loads the first page", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(20))
		if f.model.loading {
			t.Fatal("expected loading to finish")
		}
		if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6, 7, 8, 9}, f.model.visibleIDs()); diff != "" {
			t.Errorf("visible mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(f.model.View(), "Page 1/3") {
			t.Errorf("expected page status in view:\n%s", f.model.View())
		}
	})

	t.Run("pages forward and back", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(20))
		press(t, f.model, "l", "right")
		if diff := cmp.Diff([]int{19, 20}, f.model.visibleIDs()); diff != "" {
			t.Errorf("visible mismatch (-want +got):\n%s", diff)
		}
		press(t, f.model, "l", "h")
		if f.model.browser.page != 2 {
			t.Errorf("expected page 2, got %d", f.model.browser.page)
		}
	})

	t.Run("search filters titles", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(20))
		press(t, f.model, "/")
		if f.model.view != SearchView {
			t.Fatalf("expected search view, got %v", f.model.view)
		}
		press(t, f.model, "2", "0", "enter")
		if diff := cmp.Diff([]int{20}, f.model.visibleIDs()); diff != "" {
			t.Errorf("visible mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("category cycles", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(6))
		press(t, f.model, "c")
		if f.model.browser.category != "Biscuits" {
			t.Fatalf("expected Biscuits, got %q", f.model.browser.category)
		}
		if diff := cmp.Diff([]int{2, 5}, f.model.visibleIDs()); diff != "" {
			t.Errorf("visible mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("table layout lists every recipe", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(20))
		press(t, f.model, "t")
		if f.model.layout != Table || len(f.model.items) != 20 {
			t.Fatalf("expected 20 rows in table layout, got %d (%v)", len(f.model.items), f.model.layout)
		}
		if f.model.items[0].recipe.Category != "Biscuits" {
			t.Errorf("expected rows sorted by category, got %q first", f.model.items[0].recipe.Category)
		}
	})

	t.Run("load error is shown", func(t *testing.T) {
		f := &fixture{source: &fakeSource{err: shared.ErrNotAuthenticated}, actions: &fakeActions{}, storage: tu.NewMapStorage()}
		m := f.build(t)
		if !errors.Is(m.err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", m.err)
		}
		if !strings.Contains(m.View(), "Erreur") {
			t.Errorf("expected error view, got:\n%s", m.View())
		}
	})
}

func TestModelSelection(t *testing.T) {
	t.Run("enter navigates while idle", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(5))
		press(t, f.model, "down", "enter")

		if f.model.view != DetailView {
			t.Fatalf("expected detail view, got %v", f.model.view)
		}
		if diff := cmp.Diff([]int{2}, f.source.fetched); diff != "" {
			t.Errorf("fetched mismatch (-want +got):\n%s", diff)
		}
		if f.model.detail == nil || len(f.model.detail.Ingredients) != 1 {
			t.Fatalf("expected loaded detail, got %+v", f.model.detail)
		}
		if f.model.Store().Len() != 0 {
			t.Error("navigation must not touch the selection")
		}
		if !strings.Contains(f.model.View(), "farine") {
			t.Errorf("expected ingredients in detail view:\n%s", f.model.View())
		}

		press(t, f.model, "esc")
		if f.model.view != ListView {
			t.Errorf("expected list view after esc, got %v", f.model.view)
		}
	})

	t.Run("space starts selecting and enter then toggles", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(5))
		press(t, f.model, "space")
		if !f.model.barShown || f.model.barCount != 1 {
			t.Fatalf("expected shopping bar with 1, got %v %d", f.model.barShown, f.model.barCount)
		}

		press(t, f.model, "down", "enter")
		if f.model.view != ListView || len(f.source.fetched) != 0 {
			t.Fatal("expected toggle instead of navigation while selecting")
		}
		if diff := cmp.Diff([]int{1, 2}, selectedItems(f.model)); diff != "" {
			t.Errorf("selected mismatch (-want +got):\n%s", diff)
		}
		if !f.persisted().Equal(selection.NewSet(1, 2)) {
			t.Errorf("expected persisted {1,2}, got %v", f.persisted())
		}
		if !strings.Contains(f.model.View(), "2 recette(s) sélectionnée(s)") {
			t.Errorf("expected shopping bar in view:\n%s", f.model.View())
		}
	})

	t.Run("clear hides the bar", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(5))
		press(t, f.model, "space", "x")
		if f.model.barShown || f.model.Store().Len() != 0 {
			t.Error("expected empty selection after clear")
		}
		if len(f.persisted()) != 0 {
			t.Errorf("expected empty persisted selection, got %v", f.persisted())
		}
	})

	t.Run("select all only touches the visible page", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(12))
		press(t, f.model, "a", "l")

		if got := selectedItems(f.model); len(got) != 0 {
			t.Errorf("expected nothing selected on page 2, got %v", got)
		}
		press(t, f.model, "a")
		if f.model.Store().Len() != 12 {
			t.Errorf("expected 12 selected, got %d", f.model.Store().Len())
		}

		press(t, f.model, "a")
		if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6, 7, 8, 9}, f.model.Store().IDs()); diff != "" {
			t.Errorf("expected page 1 to stay selected (-want +got):\n%s", diff)
		}
	})

	t.Run("table rows reflect the selection made on cards", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(6))
		press(t, f.model, "space", "t")
		if diff := cmp.Diff([]int{1}, selectedItems(f.model)); diff != "" {
			t.Errorf("selected mismatch (-want +got):\n%s", diff)
		}
		if f.model.Indicators() != nil || len(f.model.Checkboxes()) != 6 {
			t.Error("expected checkboxes in table layout")
		}
	})

	t.Run("restores the persisted selection", func(t *testing.T) {
		f := &fixture{source: &fakeSource{recipes: sampleRecipes(5)}, actions: &fakeActions{}, storage: tu.NewMapStorage()}
		if err := f.storage.SetItem(selection.StorageKey, "[3,42]"); err != nil {
			t.Fatal(err)
		}
		m := f.build(t)
		if diff := cmp.Diff([]int{3}, selectedItems(m)); diff != "" {
			t.Errorf("selected mismatch (-want +got):\n%s", diff)
		}
		if m.barCount != 2 {
			t.Errorf("expected count 2 including off-page ids, got %d", m.barCount)
		}
	})
}

func TestModelShoppingList(t *testing.T) {
	t.Run("submits every selected id with the token", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(12))
		press(t, f.model, "space", "l", "space", "s")

		want := []submission{{ids: []int{1, 10}, token: "tok-ui"}}
		if diff := cmp.Diff(want, f.submitted, cmp.AllowUnexported(submission{})); diff != "" {
			t.Errorf("submitted mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"http://127.0.0.1:5000/shopping-list"}, f.opened); diff != "" {
			t.Errorf("opened mismatch (-want +got):\n%s", diff)
		}
		if len(f.notes) != 1 || f.notes[0].Level != notify.Success {
			t.Errorf("expected one success notification, got %v", f.notes)
		}
		if f.model.Store().Len() != 2 {
			t.Error("expected the selection to survive submission")
		}
	})

	t.Run("empty selection submits nothing", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(3))
		press(t, f.model, "s")
		if len(f.submitted) != 0 {
			t.Errorf("expected no submission, got %v", f.submitted)
		}
	})

	t.Run("failure notifies", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(3))
		f.submitErr = shared.ErrAPIRequest
		press(t, f.model, "space", "s")
		if len(f.notes) != 1 || f.notes[0].Level != notify.Danger {
			t.Errorf("expected one danger notification, got %v", f.notes)
		}
		if len(f.opened) != 0 {
			t.Error("expected no browser on failure")
		}
	})
}

func TestModelRecipeActions(t *testing.T) {
	yes := true

	t.Run("favorite is kept when confirmed", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(3))
		f.actions.result = &models.ActionResult{Success: true, Message: "Ajouté aux favoris", IsFavorite: &yes}
		press(t, f.model, "f")
		if !f.model.recipes[0].IsFavorite {
			t.Error("expected recipe 1 to be a favorite")
		}
		if diff := cmp.Diff([]string{"favorite 1"}, f.actions.calls); diff != "" {
			t.Errorf("calls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("favorite is reverted on failure", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(3))
		f.actions.err = shared.ErrAPIRequest
		press(t, f.model, "f")
		if f.model.recipes[0].IsFavorite {
			t.Error("expected favorite to be reverted")
		}
		if len(f.notes) != 1 || f.notes[0].Level != notify.Danger {
			t.Errorf("expected danger notification, got %v", f.notes)
		}
	})

	t.Run("rating is reverted when rejected", func(t *testing.T) {
		recipes := sampleRecipes(3)
		recipes[1].Rating = 2
		f := newFixture(t, recipes)
		f.actions.result = &models.ActionResult{Success: false, Message: "Note invalide"}
		press(t, f.model, "down", "4")
		if f.model.recipes[1].Rating != 2 {
			t.Errorf("expected rating 2 after rejection, got %d", f.model.recipes[1].Rating)
		}
	})

	t.Run("rating is applied from the detail view", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(3))
		f.actions.result = &models.ActionResult{Success: true, Message: "Note enregistrée"}
		press(t, f.model, "enter", "5")
		if f.model.detail == nil || f.model.detail.Rating != 5 {
			t.Fatalf("expected detail rating 5, got %+v", f.model.detail)
		}
		if f.model.recipes[0].Rating != 5 {
			t.Errorf("expected list recipe updated, got %d", f.model.recipes[0].Rating)
		}
	})

	t.Run("cooked", func(t *testing.T) {
		f := newFixture(t, sampleRecipes(3))
		f.actions.result = &models.ActionResult{Success: true, Message: "Recette marquée comme cuisinée"}
		press(t, f.model, "o")
		if diff := cmp.Diff([]string{"cooked 1"}, f.actions.calls); diff != "" {
			t.Errorf("calls mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestParseRecipeTarget(t *testing.T) {
	tests := []struct {
		target  string
		want    int
		wantErr bool
	}{
		{"/recipe/7", 7, false},
		{"http://127.0.0.1:5000/recipe/12/", 12, false},
		{"/recipe/abc", 0, true},
		{"/all-recipes", 0, true},
		{"/recipe/0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, err := parseRecipeTarget(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error %v", err)
			}
			if tt.wantErr && !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
