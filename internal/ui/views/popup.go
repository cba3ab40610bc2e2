package views

import (
	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopup centres the styled popup on a screen of the given size
func (pr *PopupRenderer) RenderPopup(popupContent string, height, width int) string {
	styled := pr.styles.Popup.Render(popupContent)
	if width <= 0 || height <= 0 {
		return styled
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styled,
		lipgloss.WithWhitespaceChars(" "))
}

