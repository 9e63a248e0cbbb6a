package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syntaxiz/internal/ui/theme"
)

// CodeCard renders a snippet with a line-number gutter.
type CodeCard struct {
	Code string

	// ErrorLine is the 1-based line to mark as rejected, 0 for none.
	ErrorLine int

	Width int
}

// Lines splits the snippet on "\n". An empty snippet is one empty line.
func (c CodeCard) Lines() []string {
	return strings.Split(c.Code, "\n")
}

// View renders the card. Every row is padded to Width so the background
// forms a solid block.
func (c CodeCard) View() string {
	lines := c.Lines()
	gutter := len(fmt.Sprint(len(lines)))

	inner := c.Width
	if inner < gutter+4 {
		inner = gutter + 4
	}

	rows := make([]string, 0, len(lines))
	for i, line := range lines {
		num := fmt.Sprintf(" %*d │ ", gutter, i+1)
		style := theme.Code
		marker := " "
		if i+1 == c.ErrorLine {
			style = theme.ErrorLine
			marker = "◂"
		}
		text := line + " " + marker
		if pad := inner - lipgloss.Width(num) - lipgloss.Width(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		rows = append(rows, theme.LineNumber.Render(num)+style.Render(text))
	}
	return strings.Join(rows, "\n")
}
