package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/spindle/internal/formatter"
)

// Theme names the colors the views are drawn with.
type Theme struct {
	Accent  string
	Good    string
	Bad     string
	Caution string
	Muted   string
}

var defaultTheme = Theme{
	Accent:  "#7D56F4",
	Good:    "#04B575",
	Bad:     "#FF0000",
	Caution: "#FFA500",
	Muted:   "#626262",
}

var styles = NewPalette(defaultTheme)

// Palette is the set of styles derived from a [Theme].
type Palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	star    lipgloss.Style
	label   lipgloss.Style
	spinner lipgloss.Style
}

func NewPalette(t Theme) *Palette {
	return &Palette{
		title:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true).MarginBottom(1),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Good)).Bold(true),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Bad)).Bold(true),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Caution)),
		help:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)).Italic(true),
		star:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Caution)),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)).Bold(true),
		spinner: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
	}
}

// stars renders the rating marks for r, green from 8 up and red at 3 or below.
func (p *Palette) stars(r int) string {
	marks := formatter.RatingMarks(r)
	switch {
	case r >= 8:
		return p.ok.UnsetBold().Render(marks)
	case r <= 3:
		return p.err.UnsetBold().Render(marks)
	default:
		return p.star.Render(marks)
	}
}
