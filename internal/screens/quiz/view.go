package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syntaxiz/internal/explain"
	"github.com/abhisek/syntaxiz/internal/problemgen"
	sess "github.com/abhisek/syntaxiz/internal/session"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
	"github.com/abhisek/syntaxiz/internal/ui/components"
	"github.com/abhisek/syntaxiz/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.state == nil || s.state.Problem == nil {
		return renderLoading(width)
	}
	if s.quitConfirm {
		return s.renderQuitConfirm(width)
	}

	var body string
	switch {
	case s.feedback == feedbackJudgment:
		body = s.renderJudgmentFeedback(width)
	case s.feedback == feedbackCorrection:
		body = s.renderCorrectionFeedback(width)
	case s.state.Phase == sess.PhaseCorrecting:
		body = s.renderCorrecting(width)
	default:
		body = s.renderQuestion(width)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, body)
}

// infoLine shows the category on the left and the snippet count on the right.
func (s *QuizScreen) infoLine(p *problemgen.Problem, cw int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(p.Category.Label())
	right := theme.Hint.Render(fmt.Sprintf("snippet #%d", s.state.ProblemsServed))

	gap := cw - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n" +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
}

func (s *QuizScreen) renderQuestion(width int) string {
	cw := components.ContentWidth(width)
	p := s.state.Problem

	var b strings.Builder
	b.WriteString(s.infoLine(p, cw))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Render("Does this snippet parse?"))
	b.WriteString("\n\n")
	b.WriteString(components.CodeCard{Code: p.Text, Width: cw}.View())
	b.WriteString("\n\n")
	b.WriteString(components.ButtonRow([]string{"[V] Valid", "[I] Invalid"}, s.choice, cw))
	return center(width, b.String())
}

func (s *QuizScreen) renderJudgmentFeedback(width int) string {
	cw := components.ContentWidth(width)
	g := s.grade

	var b strings.Builder
	if g.Correct {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite"))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(verdict(g.Failure)))
	b.WriteString("\n\n")

	errLine := 0
	if g.Failure != nil {
		errLine = g.Failure.Line
	}
	b.WriteString(components.CodeCard{Code: s.judged.Text, ErrorLine: errLine, Width: cw}.View())
	b.WriteString("\n\n")

	if g.OpensCorrection() {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Now fix it so it parses."))
		b.WriteString("\n\n")
	}
	if s.explanation != nil {
		b.WriteString(renderExplanation(s.explanation, cw))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Hint.Render("press any key to continue"))
	return center(width, b.String())
}

func (s *QuizScreen) renderCorrectionFeedback(width int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Correct.Render("It parses now!"))
	b.WriteString("\n\n")
	if s.fixed != nil {
		b.WriteString(components.CodeCard{Code: s.fixed.Revision, Width: cw}.View())
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Hint.Render("next snippet coming up"))
	return center(width, b.String())
}

func (s *QuizScreen) renderCorrecting(width int) string {
	cw := components.ContentWidth(width)
	p := s.state.Problem

	errLine := 0
	if s.state.LastGrade != nil && s.state.LastGrade.Failure != nil {
		errLine = s.state.LastGrade.Failure.Line
	}

	var b strings.Builder
	b.WriteString(s.infoLine(p, cw))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Render("Fix the snippet so it parses"))
	b.WriteString("\n\n")
	b.WriteString(components.CodeCard{Code: p.Text, ErrorLine: errLine, Width: cw}.View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Render(s.input.View()))
	if s.rejected != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render("Still does not parse: " + s.rejected.Error()))
	}
	return center(width, b.String())
}

func (s *QuizScreen) renderQuitConfirm(width int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Render("End this session?"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("You will see your summary."))
	b.WriteString("\n\n")
	b.WriteString(components.ButtonRow([]string{"[Y] End session", "[N] Keep going"}, s.quitChoice, cw))
	return center(width, b.String())
}

func renderExplanation(ex *explain.Explanation, cw int) string {
	text := lipgloss.NewStyle().Width(cw - 6).Foreground(theme.Text).Render(ex.Text)
	if ex.SuggestedFix != "" {
		text += "\n\n" + theme.Hint.Render("One way to fix it:") + "\n" +
			components.CodeCard{Code: ex.SuggestedFix, Width: cw - 6}.View()
	}
	return components.ArcadeCard(text, cw, theme.Accent)
}

// verdict states what the parser made of the snippet.
func verdict(f *syntaxcheck.ParseFailure) string {
	if f == nil {
		return "The parser accepts this snippet."
	}
	return "Parser: " + f.Error()
}

func center(width int, s string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(s)
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Warming up the parser...")
}
