// Package layout draws the chrome around every screen: a header bar, a
// footer of key hints, and the content area between them.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syntaxiz/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// Rendered heights of the bordered header and footer bars.
	HeaderHeight = 3
	FooterHeight = 3

	// Below these the screens drop decoration such as the mascot.
	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats are the live session numbers on the right of the header.
// A zero Judged hides them.
type HeaderStats struct {
	Streak  int
	Correct int
	Judged  int
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight is what remains for the screen once both bars are drawn.
func ContentHeight(total int) int {
	return max(total-HeaderHeight-FooterHeight, 0)
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Snippets need room.\n\nResize to at least %d x %d\n(now %d x %d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(msg)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader puts the app name on the left, the screen title centred and
// the session stats on the right.
func RenderHeader(title string, stats HeaderStats, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Syntaxiz")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	right := ""
	if stats.Judged > 0 {
		score := lipgloss.NewStyle().Foreground(theme.Success).
			Render(fmt.Sprintf("✓ %d/%d", stats.Correct, stats.Judged))
		streak := lipgloss.NewStyle().Foreground(theme.Accent).
			Render(fmt.Sprintf("★ %d", stats.Streak))
		right = score + "   " + streak
	}

	// 2 columns of border plus 2 of padding
	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max((inner-cw)/2-lw, 1)
	gapR := max(inner-lw-gapL-cw-rw, 1)

	row := left + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right
	return bar(width).Render(row)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, padding the content to
// fill whatever height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	padded := lipgloss.NewStyle().Width(width).Height(body).Render(content)
	return strings.Join([]string{header, padded, footer}, "\n")
}
