package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syntaxiz/internal/ui/components"
	"github.com/abhisek/syntaxiz/internal/ui/theme"
)

const arcadeTitleFull = `███████╗██╗   ██╗███╗   ██╗████████╗ █████╗ ██╗  ██╗██╗███████╗
██╔════╝╚██╗ ██╔╝████╗  ██║╚══██╔══╝██╔══██╗╚██╗██╔╝██║╚══███╔╝
███████╗ ╚████╔╝ ██╔██╗ ██║   ██║   ███████║ ╚███╔╝ ██║  ███╔╝
╚════██║  ╚██╔╝  ██║╚██╗██║   ██║   ██╔══██║ ██╔██╗ ██║ ███╔╝
███████║   ██║   ██║ ╚████║   ██║   ██║  ██║██╔╝ ██╗██║███████╗
╚══════╝   ╚═╝   ╚═╝  ╚═══╝   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝╚══════╝`

const arcadeTitleCompact = "S · Y · N · T · A · X · I · Z"

const tagline = "Does it parse? Call it, then fix it."

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	art := arcadeTitleFull
	if compact || cw < lipgloss.Width(arcadeTitleFull) {
		art = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art) + "\n" + theme.Hint.Render(tagline))
}

// renderStatsBar renders all-time numbers in a bordered box matching
// content width.
func renderStatsBar(st homeStats, cw int, compact bool) string {
	accStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	sessStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	weakStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	switch {
	case !st.enabled:
		stats = dimStyle.Render("history off")
	case st.judged == 0:
		stats = dimStyle.Render("no snippets judged yet")
	case compact:
		stats = fmt.Sprintf("%s %s",
			accStyle.Render(fmt.Sprintf("✓%.0f%%", st.accuracy()*100)),
			sessStyle.Render(fmt.Sprintf("▶%d", st.sessions)),
		)
	default:
		stats = fmt.Sprintf("%s  %s",
			accStyle.Render(fmt.Sprintf("✓ %.0f%% OF %d", st.accuracy()*100, st.judged)),
			sessStyle.Render(fmt.Sprintf("▶ %d SESSIONS", st.sessions)),
		)
		if st.weakest != "" {
			stats += "  " + weakStyle.Render("⚑ "+strings.ToUpper(st.weakest))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(m components.Menu, cw int) string {
	buttons := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		buttons = append(buttons, components.ArcadeButton(item.Label, i == m.Selected, buttonWidth))
	}
	block := strings.Join(buttons, "\n")
	if item, ok := m.Current(); ok && item.Hint != "" {
		block += "\n" + theme.Hint.Render(item.Hint)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderNotes renders dim one-line notes under the menu.
func renderNotes(notes []string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(notes, "\n"))
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
