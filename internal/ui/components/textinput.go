package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syntaxiz/internal/ui/theme"
)

// CodeInput wraps bubbles/textinput for editing a one-line snippet.
type CodeInput struct {
	Model     textinput.Model
	submitted bool
	accepted  bool
}

// NewCodeInput creates a focused input. A charLimit of 0 means unlimited.
func NewCodeInput(placeholder string, charLimit int) CodeInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = charLimit
	ti.Focus()
	return CodeInput{Model: ti}
}

// Init returns the cursor blink command.
func (c CodeInput) Init() tea.Cmd {
	return c.Model.Focus()
}

// Update forwards messages to the text input. Editing after a rejected
// submission clears the mark.
func (c CodeInput) Update(msg tea.Msg) (CodeInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		c.submitted = false
	}
	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// View renders the input with a mark for the last submission.
func (c CodeInput) View() string {
	view := c.Model.View()
	if c.submitted {
		if c.accepted {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current text.
func (c CodeInput) Value() string {
	return c.Model.Value()
}

// SetValue replaces the text and moves the cursor to the end.
func (c *CodeInput) SetValue(s string) {
	c.Model.SetValue(s)
	c.Model.CursorEnd()
	c.submitted = false
}

// Submit marks the input with the outcome of a submission.
func (c *CodeInput) Submit(accepted bool) {
	c.submitted = true
	c.accepted = accepted
}
