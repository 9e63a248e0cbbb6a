package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/router"
	"github.com/abhisek/syntaxiz/internal/screen"
	"github.com/abhisek/syntaxiz/internal/screens/history"
	"github.com/abhisek/syntaxiz/internal/screens/placeholder"
	"github.com/abhisek/syntaxiz/internal/screens/quiz"
	"github.com/abhisek/syntaxiz/internal/store"
	"github.com/abhisek/syntaxiz/internal/ui/components"
	"github.com/abhisek/syntaxiz/internal/ui/layout"
)

// Options wires the home screen to the rest of the app.
type Options struct {
	Quiz quiz.Deps

	// Events backs the stats bar and the history screen. Nil means
	// history is turned off.
	Events store.EventRepo

	// Notes are extra one-line messages, e.g. an available update.
	Notes []string
}

// homeStats is the all-time summary shown in the stats bar.
type homeStats struct {
	enabled  bool
	judged   int
	correct  int
	sessions int
	weakest  string // label of the lowest-accuracy category
}

func (s homeStats) accuracy() float64 {
	if s.judged == 0 {
		return 0
	}
	return float64(s.correct) / float64(s.judged)
}

type statsLoadedMsg struct {
	Stats homeStats
}

// HomeScreen is the main menu.
type HomeScreen struct {
	opts  Options
	menu  components.Menu
	stats homeStats
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{
		opts:  opts,
		stats: homeStats{enabled: opts.Events != nil},
	}

	items := []components.MenuItem{
		{Label: "START QUIZ", Hint: "judge snippets, fix the broken ones", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: quiz.New(opts.Quiz)}
			}
		}},
		{Label: "HISTORY", Hint: "accuracy by category and past sessions", Action: func() tea.Cmd {
			if opts.Events == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New("History", "History is turned off (--no-history).")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(opts.Events)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// loadStats reads all-time numbers from the event store. Errors leave the
// bar empty; the home screen must always render.
func (h *HomeScreen) loadStats() tea.Cmd {
	repo := h.opts.Events
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		st := homeStats{enabled: true}

		cats, err := repo.CategoryAccuracy(ctx)
		if err != nil {
			return statsLoadedMsg{Stats: st}
		}
		worst := 2.0
		for _, c := range cats {
			st.judged += c.Attempted
			st.correct += c.Correct
			if c.Attempted > 0 && c.Accuracy() < worst {
				worst = c.Accuracy()
				st.weakest = c.Category
				if cat, err := problemgen.ParseCategory(c.Category); err == nil {
					st.weakest = cat.Label()
				}
			}
		}
		if sessions, err := repo.RecentSessions(ctx, 0); err == nil {
			st.sessions = len(sessions)
		}
		return statsLoadedMsg{Stats: st}
	}
}

// Resume reloads stats after a quiz or history screen closes.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		h.stats = msg.Stats
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height excludes the header and footer.
	compact := layout.IsCompactWidth(width) ||
		layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight)
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(h.stats), cw))
	}
	sections = append(sections,
		renderStatsBar(h.stats, cw, compact),
		renderArcadeMenu(h.menu, cw),
	)
	if len(h.opts.Notes) > 0 {
		sections = append(sections, renderNotes(h.opts.Notes, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
