package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syntaxiz/internal/ui/theme"
)

// AccuracyBar is a horizontal bar for a correct/attempted tally.
type AccuracyBar struct {
	Label      string
	LabelWidth int // pads labels so bars in a column line up
	Correct    int
	Attempted  int
	Width      int
}

// Percent returns Correct/Attempted clamped to [0,1].
func (a AccuracyBar) Percent() float64 {
	if a.Attempted <= 0 {
		return 0
	}
	p := float64(a.Correct) / float64(a.Attempted)
	if p > 1 {
		p = 1
	}
	return p
}

// View renders the label, the bar, and the tally.
func (a AccuracyBar) View() string {
	var result string
	if a.Label != "" {
		label := a.Label
		if pad := a.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	tally := fmt.Sprintf("  %d/%d %3d%%", a.Correct, a.Attempted, int(a.Percent()*100))

	barWidth := a.Width - lipgloss.Width(result) - len(tally)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * a.Percent())
	if filled > barWidth {
		filled = barWidth
	}

	fill := theme.AccuracyColor(a.Percent()).GetForeground()
	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	return result + lipgloss.NewStyle().Foreground(theme.TextDim).Render(tally)
}
