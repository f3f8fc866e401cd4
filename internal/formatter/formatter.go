// package formatter renders recipes and shopping lists to CSV, Markdown, plain text, JSON and XLSX
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatXLSX     Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON, FormatXLSX}

// ParseFormat accepts a format name or a common alias ("md", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, s)
}

// Extension returns the file extension of f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

var columns = []string{"ID", "Title", "Category", "Prep Time", "Cook Time", "Total Time", "Servings", "Difficulty", "Total Carbs", "Carbs/Serving"}

func record(r models.Recipe) []string {
	return []string{
		strconv.Itoa(r.ID),
		r.Title,
		r.CategoryOrDefault(),
		strconv.Itoa(r.PrepTime),
		strconv.Itoa(r.CookTime),
		strconv.Itoa(r.TotalTime()),
		strconv.Itoa(r.Servings),
		r.Difficulty,
		models.FormatNumber(r.TotalCarbs, 1),
		models.FormatNumber(r.CarbsPerServing, 1),
	}
}

// ExportToCSV converts recipes to CSV with one row per recipe
func ExportToCSV(recipes []models.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range recipes {
		if err := writer.Write(record(r)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders each recipe as a section with its ingredients and steps
func ExportToMarkdown(recipes []models.Recipe, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Recettes"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Recettes**: %d\n\n", len(recipes))

	for _, r := range recipes {
		fmt.Fprintf(&buf, "## %s\n\n", r.Title)
		fmt.Fprintf(&buf, "- **Catégorie**: %s\n", r.CategoryOrDefault())
		fmt.Fprintf(&buf, "- **Temps total**: %s\n", shared.FormatMinutes(r.TotalTime()))
		if r.Servings > 0 {
			fmt.Fprintf(&buf, "- **Portions**: %d\n", r.Servings)
		}
		if r.Difficulty != "" {
			fmt.Fprintf(&buf, "- **Difficulté**: %s\n", r.Difficulty)
		}
		if r.CarbsPerServing > 0 {
			fmt.Fprintf(&buf, "- **Glucides/portion**: %s g\n", models.FormatNumber(r.CarbsPerServing, 1))
		}
		buf.WriteString("\n")

		if r.Description != "" {
			fmt.Fprintf(&buf, "%s\n\n", r.Description)
		}

		if len(r.Ingredients) > 0 {
			buf.WriteString("### Ingrédients\n\n")
			for _, ing := range r.Ingredients {
				fmt.Fprintf(&buf, "- %s\n", ing)
			}
			buf.WriteString("\n")
		}

		if len(r.Steps) > 0 {
			buf.WriteString("### Étapes\n\n")
			for i, step := range sortedSteps(r.Steps) {
				fmt.Fprintf(&buf, "%d. %s", i+1, step.Instruction)
				if step.Duration > 0 {
					fmt.Fprintf(&buf, " (%s)", shared.FormatMinutes(step.Duration))
				}
				buf.WriteString("\n")
			}
			buf.WriteString("\n")
		}

		if r.Tips != "" {
			fmt.Fprintf(&buf, "> %s\n\n", r.Tips)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders one line per recipe
func ExportToText(recipes []models.Recipe) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Recettes: %d\n\n", len(recipes))
	for i, r := range recipes {
		fmt.Fprintf(&buf, "%d. %s [%s] %s\n", i+1, r.Title, r.CategoryOrDefault(), shared.FormatMinutes(r.TotalTime()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes recipes as an indented JSON array
func ExportToJSON(recipes []models.Recipe) ([]byte, error) {
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return shared.MarshalJSON(recipes, true)
}

// XLSXSheet is the name of the worksheet written by [ExportToXLSX].
const XLSXSheet = "Recettes"

// ExportToXLSX writes recipes as a spreadsheet to w
func ExportToXLSX(recipes []models.Recipe, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(XLSXSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for i, r := range recipes {
		row := []any{
			r.ID, r.Title, r.CategoryOrDefault(), r.PrepTime, r.CookTime, r.TotalTime(),
			r.Servings, r.Difficulty, r.TotalCarbs, r.CarbsPerServing,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write XLSX row: %w", err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush XLSX: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

// Export renders recipes in the given format.
func Export(recipes []models.Recipe, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(recipes)
	case FormatMarkdown:
		return ExportToMarkdown(recipes, "")
	case FormatText:
		return ExportToText(recipes)
	case FormatJSON:
		return ExportToJSON(recipes)
	case FormatXLSX:
		var buf bytes.Buffer
		if err := ExportToXLSX(recipes, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, format)
}

// WriteExport writes recipes to path in the given format and returns the path written.
//
// Defaults to recipes_{epoch}.{ext} in the working directory.
func WriteExport(recipes []models.Recipe, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("recipes_%d.%s", time.Now().Unix(), format.Extension())
	}

	data, err := Export(recipes, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return path, nil
}

func sortedSteps(steps []models.Step) []models.Step {
	out := append([]models.Step(nil), steps...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
