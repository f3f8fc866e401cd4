package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/selection"
	"github.com/desertthunder/sweetlist/internal/shared"
	tu "github.com/desertthunder/sweetlist/internal/testing"
	"github.com/google/go-cmp/cmp"
)

const indexPage = `<html><head><meta name="csrf-token" content="page-token"></head><body>
<div class="recipe-card" data-recipe-id="1"><h5 class="card-title">Tarte</h5></div>
<ul><li data-category-id="2" data-category-name="Tartes">Tartes</li></ul>
</body></html>`

// recipeApp is a fake of the recipe web application recording what it received.
type recipeApp struct {
	mu       sync.Mutex
	t        *testing.T
	index    string
	forms    map[string]map[string]string
	headers  map[string]http.Header
	bodies   map[string]string
	requests []string
}

func newRecipeApp(t *testing.T) *recipeApp {
	return &recipeApp{
		t:       t,
		index:   indexPage,
		forms:   map[string]map[string]string{},
		headers: map[string]http.Header{},
		bodies:  map[string]string{},
	}
}

func (a *recipeApp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests = append(a.requests, r.Method+" "+r.URL.Path)
	a.headers[r.URL.Path] = r.Header.Clone()

	if r.Method == http.MethodPost {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				a.t.Errorf("failed to parse form: %v", err)
			}
			fields := map[string]string{}
			for k := range r.PostForm {
				fields[k] = r.PostForm.Get(k)
			}
			a.forms[r.URL.Path] = fields
		} else {
			body, _ := io.ReadAll(r.Body)
			a.bodies[r.URL.Path] = string(body)
		}
	}

	switch {
	case r.URL.Path == "/" && r.Method == http.MethodGet:
		fmt.Fprint(w, a.index)
	case r.URL.Path == "/api/recipes":
		json.NewEncoder(w).Encode([]models.Recipe{{ID: 1, Title: "Tarte"}, {ID: 2, Title: "Moelleux"}})
	case r.URL.Path == "/api/recipe/1":
		json.NewEncoder(w).Encode(models.Recipe{ID: 1, Title: "Tarte", PrepTime: 20, CookTime: 35})
	case r.URL.Path == "/api/recipe/garbled":
		fmt.Fprint(w, "<html>")
	case r.URL.Path == "/private":
		http.Redirect(w, r, "/login?next=/private", http.StatusFound)
	case r.URL.Path == "/login":
		fmt.Fprint(w, "<form>login</form>")
	case r.URL.Path == "/shopping-list" && r.Method == http.MethodPost:
		http.Redirect(w, r, "/shopping-list/view", http.StatusSeeOther)
	case r.URL.Path == "/shopping-list/view":
		fmt.Fprint(w, "<h1>Liste de courses</h1>")
	case r.URL.Path == "/settings/category/add":
		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"message":  `Famille "Tartes" ajoutée !`,
			"category": map[string]any{"id": 9, "name": "Tartes"},
		})
	case strings.HasPrefix(r.URL.Path, "/settings/category/"):
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Ce nom de famille existe déjà."})
	case strings.HasPrefix(r.URL.Path, "/recipe/"):
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "ok", "is_favorite": true})
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, app http.Handler, opts ClientOpts) *Client {
	t.Helper()
	server := httptest.NewServer(app)
	t.Cleanup(server.Close)

	opts.BaseURL = server.URL
	client, err := NewClient(opts)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("With Empty BaseURL", func(t *testing.T) {
		c, err := NewClient(ClientOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if c.BaseURL() != DefaultBaseURL {
			t.Errorf("expected default base url, got %s", c.BaseURL())
		}
	})

	t.Run("With Invalid BaseURL", func(t *testing.T) {
		_, err := NewClient(ClientOpts{BaseURL: "not a url"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("URL", func(t *testing.T) {
		c, _ := NewClient(ClientOpts{BaseURL: "http://example.com/"})
		if got := c.URL("/recipe/3"); got != "http://example.com/recipe/3" {
			t.Errorf("URL() = %s", got)
		}
	})
}

func TestClientReads(t *testing.T) {
	ctx := context.Background()

	t.Run("Recipes", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{Cookie: "session=abc"})

		recipes, err := c.Recipes(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(recipes) != 2 || recipes[1].Title != "Moelleux" {
			t.Errorf("unexpected recipes: %+v", recipes)
		}
		if got := app.headers["/api/recipes"].Get("Cookie"); got != "session=abc" {
			t.Errorf("expected session cookie to be sent, got %q", got)
		}
	})

	t.Run("Recipe", func(t *testing.T) {
		c := newTestClient(t, newRecipeApp(t), ClientOpts{})

		recipe, err := c.Recipe(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if recipe.TotalTime() != 55 {
			t.Errorf("expected total time 55, got %d", recipe.TotalTime())
		}
	})

	t.Run("Recipe Not Found", func(t *testing.T) {
		c := newTestClient(t, newRecipeApp(t), ClientOpts{})

		_, err := c.Recipe(ctx, 404)
		if !errors.Is(err, shared.ErrRecipeNotFound) {
			t.Errorf("expected ErrRecipeNotFound, got %v", err)
		}
	})

	t.Run("Unexpected Response", func(t *testing.T) {
		c := newTestClient(t, newRecipeApp(t), ClientOpts{})

		var r models.Recipe
		err := c.getJSON(ctx, "/api/recipe/garbled", &r)
		if !errors.Is(err, shared.ErrUnexpectedResponse) {
			t.Errorf("expected ErrUnexpectedResponse, got %v", err)
		}
	})

	t.Run("Login Redirect", func(t *testing.T) {
		c := newTestClient(t, newRecipeApp(t), ClientOpts{})

		_, err := c.FetchPage(ctx, "/private")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Categories", func(t *testing.T) {
		c := newTestClient(t, newRecipeApp(t), ClientOpts{})

		categories, err := c.Categories(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if diff := cmp.Diff([]models.Category{{ID: 2, Name: "Tartes"}}, categories); diff != "" {
			t.Errorf("categories mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Failed HTTP Request", func(t *testing.T) {
		c, _ := NewClient(ClientOpts{
			BaseURL:    "http://example.com",
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))},
		})

		_, err := c.Recipes(ctx)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Failed Body Read", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		c, _ := NewClient(ClientOpts{
			BaseURL:    "http://example.com",
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)},
		})

		_, err := c.Recipes(ctx)
		if err == nil || !strings.Contains(err.Error(), "failed to read response") {
			t.Errorf("expected read error, got %v", err)
		}
	})

	t.Run("IndexQuery Path", func(t *testing.T) {
		tests := []struct {
			q    IndexQuery
			want string
		}{
			{IndexQuery{}, "/"},
			{IndexQuery{Page: 1}, "/"},
			{IndexQuery{Page: 2, Category: "Tartes", Search: "citron"}, "/?category=Tartes&page=2&search=citron"},
		}
		for _, tt := range tests {
			if got := tt.q.Path(); got != tt.want {
				t.Errorf("Path(%+v) = %s, want %s", tt.q, got, tt.want)
			}
		}
	})
}

func TestClientToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Override", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{CSRFToken: "configured"})

		token, err := c.CSRFToken(ctx)
		if err != nil || token != "configured" {
			t.Errorf("CSRFToken() = %q, %v", token, err)
		}
		if len(app.requests) != 0 {
			t.Errorf("override should not fetch a page, got %v", app.requests)
		}
	})

	t.Run("Fetched Once", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{})

		for range 2 {
			if token, err := c.CSRFToken(ctx); err != nil || token != "page-token" {
				t.Fatalf("CSRFToken() = %q, %v", token, err)
			}
		}
		if len(app.requests) != 1 {
			t.Errorf("expected one page fetch, got %v", app.requests)
		}
	})

	t.Run("Concurrent", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{})

		var wg sync.WaitGroup
		tokens := make([]string, 8)
		for i := range tokens {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tokens[i] = c.Token(ctx)
			}()
		}
		wg.Wait()

		for i, token := range tokens {
			if token != "page-token" {
				t.Errorf("Token() #%d = %q, want page-token", i, token)
			}
		}
	})

	t.Run("Missing", func(t *testing.T) {
		app := newRecipeApp(t)
		app.index = "<html><body>no token</body></html>"
		c := newTestClient(t, app, ClientOpts{})

		if _, err := c.CSRFToken(ctx); !errors.Is(err, shared.ErrMissingToken) {
			t.Errorf("expected ErrMissingToken, got %v", err)
		}
		if got := c.Token(ctx); got != "" {
			t.Errorf("Token() = %q, want empty", got)
		}
	})
}

func TestClientActions(t *testing.T) {
	ctx := context.Background()

	t.Run("AddCategory", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{})

		result, err := c.AddCategory(ctx, "Tartes")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Success || result.Category == nil || result.Category.ID != 9 {
			t.Errorf("unexpected result: %+v", result)
		}

		want := map[string]string{"category_name": "Tartes", "csrf_token": "page-token"}
		if diff := cmp.Diff(want, app.forms["/settings/category/add"]); diff != "" {
			t.Errorf("form mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("EditCategory", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{CSRFToken: "tok"})

		result, err := c.EditCategory(ctx, 4, "Gâteaux")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Success || result.Message == "" {
			t.Errorf("expected unsuccessful result with message, got %+v", result)
		}

		want := map[string]string{"new_name": "Gâteaux", "csrf_token": "tok"}
		if diff := cmp.Diff(want, app.forms["/settings/category/edit/4"]); diff != "" {
			t.Errorf("form mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("DeleteCategory Without Token", func(t *testing.T) {
		app := newRecipeApp(t)
		app.index = "<html></html>"
		c := newTestClient(t, app, ClientOpts{})

		if _, err := c.DeleteCategory(ctx, 4); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if diff := cmp.Diff(map[string]string{}, app.forms["/settings/category/delete/4"]); diff != "" {
			t.Errorf("form mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ToggleFavorite", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{CSRFToken: "tok"})

		result, err := c.ToggleFavorite(ctx, 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.IsFavorite == nil || !*result.IsFavorite {
			t.Errorf("expected is_favorite true, got %+v", result)
		}
		if got := app.headers["/recipe/3/favorite"].Get("X-CSRFToken"); got != "tok" {
			t.Errorf("expected X-CSRFToken header, got %q", got)
		}
	})

	t.Run("MarkCooked", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{CSRFToken: "tok"})

		if _, err := c.MarkCooked(ctx, 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := app.headers["/recipe/3/cooked"].Get("X-CSRFToken"); got != "tok" {
			t.Errorf("expected X-CSRFToken header, got %q", got)
		}
	})

	t.Run("Rate", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{CSRFToken: "tok"})

		if _, err := c.Rate(ctx, 3, 4); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := app.bodies["/recipe/3/rate"]; strings.TrimSpace(got) != `{"rating":4}` {
			t.Errorf("unexpected body %q", got)
		}
		if got := app.headers["/recipe/3/rate"].Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
	})

	t.Run("Rate Without Token", func(t *testing.T) {
		app := newRecipeApp(t)
		app.index = "<html></html>"
		c := newTestClient(t, app, ClientOpts{})

		if _, err := c.Rate(ctx, 3, 4); !errors.Is(err, shared.ErrMissingToken) {
			t.Errorf("expected ErrMissingToken, got %v", err)
		}
		if _, sent := app.headers["/recipe/3/rate"]; sent {
			t.Error("rating request should not be sent without a token")
		}
	})

	t.Run("Rate Out Of Range", func(t *testing.T) {
		c := newTestClient(t, newRecipeApp(t), ClientOpts{CSRFToken: "tok"})

		if _, err := c.Rate(ctx, 3, 6); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestClientShoppingList(t *testing.T) {
	ctx := context.Background()

	t.Run("Submit", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{})

		landing, err := c.SubmitShoppingList(ctx, []int{5, 6}, "tok")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasSuffix(landing, "/shopping-list/view") {
			t.Errorf("expected landing on the shopping list, got %s", landing)
		}

		want := map[string]string{"recipe_ids": "5,6", "csrf_token": "tok"}
		if diff := cmp.Diff(want, app.forms["/shopping-list"]); diff != "" {
			t.Errorf("form mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Submit Without Token", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{})

		if _, err := c.SubmitShoppingList(ctx, []int{5}, ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := app.forms["/shopping-list"]["csrf_token"]; ok {
			t.Error("csrf_token should be omitted when unavailable")
		}
	})

	t.Run("Empty Selection", func(t *testing.T) {
		c := newTestClient(t, newRecipeApp(t), ClientOpts{})

		if _, err := c.SubmitShoppingList(ctx, nil, ""); !errors.Is(err, shared.ErrEmptySelection) {
			t.Errorf("expected ErrEmptySelection, got %v", err)
		}
	})

	t.Run("Through The Dispatcher", func(t *testing.T) {
		app := newRecipeApp(t)
		c := newTestClient(t, app, ClientOpts{})

		var landed string
		d := selection.NewDispatcher(selection.DispatcherOpts{
			Store:     selection.NewStore(selection.NewSet(8, 3)),
			Submitter: c.ShoppingListSubmitter(func(l string) { landed = l }),
			Token:     c.Token,
		})

		if err := d.OnSubmitShoppingList(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasSuffix(landed, "/shopping-list/view") {
			t.Errorf("unexpected landing %q", landed)
		}

		want := map[string]string{"recipe_ids": "3,8", "csrf_token": "page-token"}
		if diff := cmp.Diff(want, app.forms["/shopping-list"]); diff != "" {
			t.Errorf("form mismatch (-want +got):\n%s", diff)
		}
	})
}
