package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/selection"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/desertthunder/sweetlist/internal/tasks"
)

func (m *Model) renderList() string {
	var status []string
	if m.layout == Cards {
		total := len(m.browser.filter(m.recipes, m.layout))
		status = append(status, fmt.Sprintf("Page %d/%d", m.browser.page, m.browser.pages(total)))
	} else {
		status = append(status, fmt.Sprintf("%d recette(s)", len(m.items)))
	}
	if m.browser.category != "" {
		status = append(status, "Famille: "+m.browser.category)
	}
	if m.browser.search != "" {
		status = append(status, fmt.Sprintf("Recherche: %q", m.browser.search))
	}
	if m.Store().Mode() == selection.Selecting {
		status = append(status, styles.selected.Render("Mode sélection"))
	}

	var b strings.Builder
	if m.view == SearchView {
		b.WriteString(m.search.View() + "\n\n")
	}
	if len(m.items) == 0 {
		b.WriteString(styles.title.Render(m.list.Title) + "\n")
		b.WriteString(styles.help.Render("Aucune recette trouvée"))
	} else {
		b.WriteString(m.list.View())
	}
	b.WriteString("\n" + styles.help.Render(strings.Join(status, " • ")))
	return b.String()
}

func (m *Model) renderDetail() string {
	r := m.detail
	if r == nil {
		return "Chargement de la recette..."
	}

	var b strings.Builder
	title := r.Title
	if r.IsFavorite {
		title += " ★"
	}
	b.WriteString(styles.title.Render(title) + "\n")

	meta := []string{r.CategoryOrDefault()}
	if r.PrepTime > 0 {
		meta = append(meta, "Préparation "+shared.FormatMinutes(r.PrepTime))
	}
	if r.CookTime > 0 {
		meta = append(meta, "Cuisson "+shared.FormatMinutes(r.CookTime))
	}
	if r.Servings > 0 {
		meta = append(meta, fmt.Sprintf("%d portion(s)", r.Servings))
	}
	if r.Difficulty != "" {
		meta = append(meta, r.Difficulty)
	}
	b.WriteString(strings.Join(meta, " • ") + "\n")
	b.WriteString(fmt.Sprintf("Note: %s", stars(r.Rating)))
	if r.TotalCarbs > 0 {
		b.WriteString(fmt.Sprintf("   Glucides: %s g (%s g/portion)",
			models.FormatNumber(r.TotalCarbs, 1), models.FormatNumber(r.CarbsPerServing, 1)))
	}
	b.WriteString("\n")

	if r.Description != "" {
		b.WriteString("\n" + r.Description + "\n")
	}
	if len(r.Ingredients) > 0 {
		b.WriteString("\n" + styles.heading.Render("Ingrédients") + "\n")
		for _, ing := range r.Ingredients {
			b.WriteString("  • " + ing.String() + "\n")
		}
	}
	if len(r.Steps) > 0 {
		b.WriteString("\n" + styles.heading.Render("Étapes") + "\n")
		for i, step := range r.Steps {
			line := fmt.Sprintf("  %d. %s", i+1, step.Instruction)
			if step.Duration > 0 {
				line += styles.help.Render(" (" + shared.FormatMinutes(step.Duration) + ")")
			}
			b.WriteString(line + "\n")
		}
	}
	if r.Tips != "" {
		b.WriteString("\n" + styles.heading.Render("Astuces") + "\n" + r.Tips + "\n")
	}
	if m.loading {
		b.WriteString("\n" + styles.help.Render("Mise à jour..."))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderExport() string {
	title := styles.title.Render("Export des recettes sélectionnées")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchRecipes:
		phase = fmt.Sprintf("Chargement (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.ExportRecipes:
		phase = "Écriture du fichier..."
	default:
		phase = "Préparation..."
	}
	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

// renderShoppingBar mirrors the page's shopping bar: hidden while nothing is selected.
func (m *Model) renderShoppingBar() string {
	if !m.barShown {
		return ""
	}
	return styles.bar.Render(fmt.Sprintf("🛒 %d recette(s) sélectionnée(s)  s: liste de courses  x: vider", m.barCount))
}

func (m *Model) renderNotifications() string {
	active := m.notes.Active(time.Now())
	lines := make([]string, 0, len(active))
	for _, n := range active {
		lines = append(lines, styles.level(n.Level).Render(n.Message))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}

	var keys []key.Binding
	switch m.view {
	case DetailView:
		keys = []key.Binding{m.keys.favorite, m.keys.rate, m.keys.cooked, m.keys.back, m.keys.quit}
	case SearchView:
		keys = []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
			m.keys.back,
		}
	case ExportView:
		return ""
	default:
		keys = m.keys.ShortHelp()
	}
	return m.help.ShortHelpView(keys)
}
