package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syntaxiz/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for all arcade sections.
// Boxes are rendered at this width so they line up. Snippets need more room
// than menus, so the cap is wider than a typical card.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6 // cabinet border (2) + inner padding (4)
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// CabinetFrame wraps content in a double-border cabinet frame,
// centering vertically and horizontally within the given dimensions.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded-border card at the given content
// width. A nil accent uses the default border color.
func ArcadeCard(content string, cw int, accent color.Color) string {
	if accent == nil {
		accent = theme.Border
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ArcadeButton renders a styled button matching the home menu style.
// The selected button is highlighted in arcade yellow.
func ArcadeButton(label string, selected bool, width int) string {
	if selected {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ArcadeYellow).
			Padding(0, 1).
			Render("▸ " + label)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(label)
}

// ButtonRow lays out buttons side by side, splitting cw evenly.
func ButtonRow(labels []string, selected int, cw int) string {
	if len(labels) == 0 {
		return ""
	}
	w := cw/len(labels) - 1
	if w < 8 {
		w = 8
	}
	buttons := make([]string, 0, len(labels)*2)
	for i, l := range labels {
		if i > 0 {
			buttons = append(buttons, " ")
		}
		buttons = append(buttons, ArcadeButton(l, i == selected, w))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}
