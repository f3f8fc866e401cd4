package dom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/selection"
	"github.com/desertthunder/sweetlist/internal/shared"
)

const (
	cardSelector     = ".recipe-card[data-recipe-id]"
	rowSelector      = "tr[data-recipe-id]"
	checkboxSelector = "input.recipe-checkbox"
	barSelector      = "#shopping-bar"
	countSelector    = "#selected-count"

	selectedClass = "selected"
	hiddenClass   = "d-none"
	idAttr        = "data-recipe-id"
)

// Page is a parsed HTML page.
type Page struct {
	doc *goquery.Document
}

// Card is a recipe card as rendered on the index page.
type Card struct {
	ID       int
	Title    string
	Category string
	Target   string
	Selected bool
}

// NewPage parses r as HTML.
func NewPage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse page: %v", shared.ErrUnexpectedResponse, err)
	}
	return &Page{doc: doc}, nil
}

// ParsePage parses an HTML string.
func ParsePage(html string) (*Page, error) {
	return NewPage(strings.NewReader(html))
}

// FromDocument wraps an already parsed document.
func FromDocument(doc *goquery.Document) *Page {
	return &Page{doc: doc}
}

// Document exposes the underlying goquery document.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// CSRFToken returns the anti-forgery token: the csrf-token meta tag, else the first hidden csrf_token
// input. It returns "" when the page carries neither.
func (p *Page) CSRFToken() string {
	if v, ok := p.doc.Find(`meta[name="csrf-token"]`).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := p.doc.Find(`input[name="csrf_token"]`).First().Attr("value"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// RecipeIDs returns the ids of every bound card and row, in document order and without duplicates.
func (p *Page) RecipeIDs() []int {
	seen := selection.NewSet()
	var ids []int

	p.doc.Find(cardSelector + ", " + rowSelector).Each(func(_ int, s *goquery.Selection) {
		id, ok := recipeID(s)
		if !ok || seen.Has(id) {
			return
		}
		seen.Insert(id)
		ids = append(ids, id)
	})

	return ids
}

// Cards returns the recipe cards of the page.
func (p *Page) Cards() []Card {
	var cards []Card
	p.doc.Find(cardSelector).Each(func(_ int, s *goquery.Selection) {
		id, ok := recipeID(s)
		if !ok {
			return
		}

		target, ok := s.Attr("data-href")
		if !ok {
			target, ok = s.Find("a[href]").First().Attr("href")
		}
		if !ok || target == "" {
			target = models.RecipePath(id)
		}

		cards = append(cards, Card{
			ID:       id,
			Title:    strings.TrimSpace(s.Find(".card-title").First().Text()),
			Category: strings.TrimSpace(s.Find(".recipe-category").First().Text()),
			Target:   target,
			Selected: s.HasClass(selectedClass),
		})
	})
	return cards
}

// SetShoppingBar implements selection.View.
func (p *Page) SetShoppingBar(visible bool, count int) {
	bar := p.doc.Find(barSelector)
	if visible {
		bar.RemoveClass(hiddenClass)
	} else {
		bar.AddClass(hiddenClass)
	}
	p.doc.Find(countSelector).SetText(strconv.Itoa(count))
}

// ShoppingBar reports the rendered shopping bar state.
func (p *Page) ShoppingBar() (visible bool, count int) {
	bar := p.doc.Find(barSelector)
	if bar.Length() == 0 {
		return false, 0
	}
	count, _ = strconv.Atoi(strings.TrimSpace(p.doc.Find(countSelector).Text()))
	return !bar.HasClass(hiddenClass), count
}

// Indicators implements selection.View.
func (p *Page) Indicators() []selection.Indicator {
	var out []selection.Indicator
	p.doc.Find(cardSelector).Each(func(_ int, s *goquery.Selection) {
		if id, ok := recipeID(s); ok {
			out = append(out, &card{id: id, sel: s})
		}
	})
	return out
}

// Checkboxes implements selection.View.
func (p *Page) Checkboxes() []selection.Checkbox {
	var out []selection.Checkbox
	p.doc.Find(rowSelector).Each(func(_ int, s *goquery.Selection) {
		id, ok := recipeID(s)
		box := s.Find(checkboxSelector).First()
		if ok && box.Length() > 0 {
			out = append(out, &checkbox{id: id, sel: box})
		}
	})
	return out
}

// HTML renders the page back to markup.
func (p *Page) HTML() (string, error) {
	html, err := goquery.OuterHtml(p.doc.Selection)
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return html, nil
}

type card struct {
	id  int
	sel *goquery.Selection
}

func (c *card) RecipeID() int { return c.id }

func (c *card) SetSelected(selected bool) {
	if selected {
		c.sel.AddClass(selectedClass)
	} else {
		c.sel.RemoveClass(selectedClass)
	}
}

type checkbox struct {
	id  int
	sel *goquery.Selection
}

func (c *checkbox) RecipeID() int { return c.id }

func (c *checkbox) SetChecked(checked bool) {
	if checked {
		c.sel.SetAttr("checked", "checked")
	} else {
		c.sel.RemoveAttr("checked")
	}
}

func recipeID(s *goquery.Selection) (int, bool) {
	raw, ok := s.Attr(idAttr)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return id, true
}

// Categories returns the recipe families listed by the settings modal, `[data-category-id]` elements named
// by their data-category-name attribute or their text.
func (p *Page) Categories() []models.Category {
	var out []models.Category
	seen := selection.NewSet()
	p.doc.Find("[data-category-id]").Each(func(_ int, s *goquery.Selection) {
		raw, _ := s.Attr("data-category-id")
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || seen.Has(id) {
			return
		}

		name, ok := s.Attr("data-category-name")
		if !ok {
			name = s.Text()
		}
		seen.Insert(id)
		out = append(out, models.Category{ID: id, Name: strings.TrimSpace(name)})
	})
	return out
}
