package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Label         lipgloss.Style
	Selection     lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Highlight     lipgloss.Style
	HighlightBg   lipgloss.Style
	Card          lipgloss.Style
	CardTitle     lipgloss.Style
	FieldName     lipgloss.Style
	FieldValue    lipgloss.Style
	Popup         lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:       lipgloss.NewStyle().Faint(true),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selection: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true), // green
		Help:      lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		HighlightBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		CardTitle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		FieldName:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		FieldValue:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Popup:         lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
