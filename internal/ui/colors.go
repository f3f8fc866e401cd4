package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/sweetlist/internal/notify"
)

var styles = NewPalette("#D9467A", "#04B575", "#FF4D4D", "#FFA500", "#5DA9E9", "#626262")

// Painter colors text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	info     lipgloss.Style
	help     lipgloss.Style
	selected lipgloss.Style
	cursor   lipgloss.Style
	bar      lipgloss.Style
	heading  lipgloss.Style
}

func NewPalette(t, s, e, w, i, h string) *Palette {
	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		info:     NewStyle(i),
		help:     NewEm(h),
		selected: NewBold(s),
		cursor:   NewBold(t),
		bar:      NewBold("#FFFFFF").Background(lipgloss.Color(t)).Padding(0, 1),
		heading:  NewBold(t),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// level returns the style of a notification level, matching the web app's alert colors.
func (p *Palette) level(l notify.Level) lipgloss.Style {
	switch l {
	case notify.Success:
		return p.ok
	case notify.Warning:
		return p.warn
	case notify.Danger:
		return p.err
	default:
		return p.info
	}
}
