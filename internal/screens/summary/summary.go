package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syntaxiz/internal/router"
	"github.com/abhisek/syntaxiz/internal/screen"
	"github.com/abhisek/syntaxiz/internal/session"
	"github.com/abhisek/syntaxiz/internal/ui/components"
	"github.com/abhisek/syntaxiz/internal/ui/layout"
	"github.com/abhisek/syntaxiz/internal/ui/theme"
)

// SummaryScreen displays the end-of-session summary.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	cw := components.ContentWidth(width)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(headline(sum))))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(theme.Hint.Render(fmt.Sprintf("Time %d:%02d   Best streak %d", mins, secs, sum.BestStreak))))
	b.WriteString("\n\n")

	b.WriteString(center(components.AccuracyBar{
		Label:      "Overall",
		LabelWidth: 14,
		Correct:    sum.CorrectJudgments,
		Attempted:  sum.Judgments,
		Width:      cw,
	}.View()))
	b.WriteString("\n\n")

	if len(sum.Categories) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
		b.WriteString(center(theme.Hint.Render("By category")))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n")
		for _, cr := range sum.Categories {
			b.WriteString(center(components.AccuracyBar{
				Label:      cr.Category.Label(),
				LabelWidth: 14,
				Correct:    cr.Correct,
				Attempted:  cr.Attempted,
				Width:      cw,
			}.View()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fixes := fmt.Sprintf("Snippets seen %d   Fixes accepted %d of %d tries",
		sum.ProblemsServed, sum.CorrectionsAccepted, sum.CorrectionAttempts)
	b.WriteString(center(theme.Body.Render(fixes)))

	return b.String()
}

func headline(sum *session.Summary) string {
	switch {
	case sum.Judgments == 0:
		return "No snippets judged"
	case sum.Accuracy >= 0.8:
		return "Sharp eyes!"
	case sum.Accuracy >= 0.5:
		return "Session complete"
	default:
		return "Keep practicing"
	}
}
