package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, an editor-dark scheme with arcade accents
var (
	Primary   = lipgloss.Color("#A78BFA") // Lavender
	Secondary = lipgloss.Color("#38BDF8") // Sky
	Accent    = lipgloss.Color("#FBBF24") // Amber
	Success   = lipgloss.Color("#4ADE80") // Green
	Error     = lipgloss.Color("#FB7185") // Rose
	Text      = lipgloss.Color("#E2E8F0") // Off-white
	TextDim   = lipgloss.Color("#64748B") // Slate
	BgDark    = lipgloss.Color("#0B1120") // Ink
	BgCard    = lipgloss.Color("#172033") // Panel
	Border    = lipgloss.Color("#2E3B55") // Rule

	ArcadeYellow = lipgloss.Color("#FDE047")
	ArcadeCyan   = lipgloss.Color("#22D3EE")

	CodeBg     = lipgloss.Color("#111827")
	CodeGutter = lipgloss.Color("#475569")
)

// Typography
var (
	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Code
var (
	Code = lipgloss.NewStyle().
		Foreground(Text).
		Background(CodeBg)

	LineNumber = lipgloss.NewStyle().
			Foreground(CodeGutter).
			Background(CodeBg)

	// ErrorLine marks the line the parser rejected.
	ErrorLine = lipgloss.NewStyle().
			Foreground(Error).
			Background(CodeBg).
			Bold(true)
)

// Components
var (
	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// AccuracyColor picks a color for an accuracy in [0,1].
func AccuracyColor(acc float64) lipgloss.Style {
	switch {
	case acc >= 0.8:
		return lipgloss.NewStyle().Foreground(Success)
	case acc < 0.5:
		return lipgloss.NewStyle().Foreground(Error)
	default:
		return lipgloss.NewStyle().Foreground(Accent)
	}
}
