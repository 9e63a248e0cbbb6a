package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/router"
	"github.com/abhisek/syntaxiz/internal/screen"
	"github.com/abhisek/syntaxiz/internal/store"
	"github.com/abhisek/syntaxiz/internal/ui/components"
	"github.com/abhisek/syntaxiz/internal/ui/layout"
	"github.com/abhisek/syntaxiz/internal/ui/theme"
)

const (
	sessionLimit  = 50
	judgmentLimit = 500
)

type historyLoadedMsg struct {
	Sessions   []store.SessionSummaryRecord
	Categories []store.CategoryStats
	Misses     map[string][]store.JudgmentEventRecord // sessionID → wrong judgments
	Err        error
}

// HistoryScreen displays all-time category accuracy and past sessions.
// Expanding a session lists the snippets missed in it.
type HistoryScreen struct {
	eventRepo  store.EventRepo
	sessions   []store.SessionSummaryRecord
	categories []store.CategoryStats
	misses     map[string][]store.JudgmentEventRecord
	selected   int
	expanded   map[int]bool
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		ctx := context.Background()

		sessions, err := repo.RecentSessions(ctx, sessionLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		cats, err := repo.CategoryAccuracy(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Missed snippets are a nice-to-have; show sessions without them.
		misses := make(map[string][]store.JudgmentEventRecord)
		judgments, err := repo.QueryJudgmentEvents(ctx, store.QueryOpts{Limit: judgmentLimit})
		if err == nil {
			for _, j := range judgments {
				if !j.Correct {
					misses[j.SessionID] = append(misses[j.SessionID], j)
				}
			}
		}
		return historyLoadedMsg{Sessions: sessions, Categories: cats, Misses: misses}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Missed snippets"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.categories = msg.Categories
			s.misses = msg.Misses
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 && len(s.categories) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Judge a few snippets first!")
	}

	cw := components.ContentWidth(width)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")
	if len(s.categories) > 0 {
		b.WriteString(center(theme.Hint.Render("All-time accuracy")))
		b.WriteString("\n")
		for _, c := range s.categories {
			b.WriteString(center(components.AccuracyBar{
				Label:      categoryLabel(c.Category),
				LabelWidth: 14,
				Correct:    c.Correct,
				Attempted:  c.Attempted,
				Width:      cw,
			}.View()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for i, sess := range s.sessions {
		b.WriteString(center(s.sessionLine(i, sess, cw)))
		b.WriteString("\n")
		if s.expanded[i] {
			b.WriteString(s.renderMisses(sess.SessionID, cw, center))
		}
	}
	return b.String()
}

func (s *HistoryScreen) sessionLine(i int, sess store.SessionSummaryRecord, cw int) string {
	var accuracy float64
	if sess.Judgments > 0 {
		accuracy = float64(sess.CorrectJudgments) / float64(sess.Judgments)
	}

	prefix := "  "
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		prefix = "▸ "
		style = theme.Selected
	}

	line := fmt.Sprintf("%s%s  %d:%02d  %2d judged  %3.0f%%  %d fixed",
		prefix,
		sess.Timestamp.Local().Format("Jan 02 15:04"),
		sess.DurationSecs/60, sess.DurationSecs%60,
		sess.Judgments, accuracy*100, sess.CorrectionsAccepted)
	return lipgloss.NewStyle().Width(cw).Render(style.Render(line))
}

func (s *HistoryScreen) renderMisses(sessionID string, cw int, center func(string) string) string {
	misses := s.misses[sessionID]
	if len(misses) == 0 {
		return center(lipgloss.NewStyle().Width(cw).Render(theme.Hint.Render("    No misses this session"))) + "\n"
	}

	var b strings.Builder
	for _, m := range misses {
		verdict := "valid"
		if !m.ActualValid {
			verdict = "invalid"
		}
		line := fmt.Sprintf("    %s  said %s, was %s", oneLine(m.Snippet), m.Judgment, verdict)
		b.WriteString(center(lipgloss.NewStyle().Width(cw).Foreground(theme.Error).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func categoryLabel(name string) string {
	c, err := problemgen.ParseCategory(name)
	if err != nil {
		return name
	}
	return c.Label()
}

// oneLine collapses a snippet's line breaks for list display.
func oneLine(snippet string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(snippet, "\n", " ")), " ")
}
