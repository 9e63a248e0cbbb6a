package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/syntaxiz/internal/router"
	"github.com/abhisek/syntaxiz/internal/store"
)

// fakeRepo serves canned history. Methods the screen does not call panic
// through the nil embedded interface.
type fakeRepo struct {
	store.EventRepo
	sessions   []store.SessionSummaryRecord
	categories []store.CategoryStats
	judgments  []store.JudgmentEventRecord
	err        error
}

func (f *fakeRepo) RecentSessions(context.Context, int) ([]store.SessionSummaryRecord, error) {
	return f.sessions, f.err
}

func (f *fakeRepo) CategoryAccuracy(context.Context) ([]store.CategoryStats, error) {
	return f.categories, nil
}

func (f *fakeRepo) QueryJudgmentEvents(context.Context, store.QueryOpts) ([]store.JudgmentEventRecord, error) {
	return f.judgments, nil
}

func loaded(t *testing.T, repo *fakeRepo) *HistoryScreen {
	t.Helper()
	s := New(repo)
	s.Update(s.Init()())
	if !s.loaded {
		t.Fatal("history did not load")
	}
	return s
}

func testRepo() *fakeRepo {
	ts := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	return &fakeRepo{
		sessions: []store.SessionSummaryRecord{
			{SessionID: "b", Timestamp: ts, Judgments: 4, CorrectJudgments: 3, CorrectionsAccepted: 1, DurationSecs: 95},
			{SessionID: "a", Timestamp: ts.Add(-time.Hour), Judgments: 2, CorrectJudgments: 2, DurationSecs: 30},
		},
		categories: []store.CategoryStats{
			{Category: "brackets", Attempted: 2, Correct: 1},
			{Category: "for-loop", Attempted: 4, Correct: 4},
		},
		judgments: []store.JudgmentEventRecord{
			{JudgmentEventData: store.JudgmentEventData{SessionID: "b", Snippet: "if (valx} {\n\n}", Judgment: "valid", Correct: false}},
			{JudgmentEventData: store.JudgmentEventData{SessionID: "b", Snippet: "'abc'", Judgment: "valid", ActualValid: true, Correct: true}},
		},
	}
}

func TestHistory_Loading(t *testing.T) {
	s := New(testRepo())
	if !strings.Contains(s.View(100, 30), "Loading history") {
		t.Error("expected loading view")
	}
}

func TestHistory_ShowsCategoriesAndSessions(t *testing.T) {
	view := loaded(t, testRepo()).View(100, 30)
	for _, want := range []string{"All-time accuracy", "Brackets", "For loops", "1:35", "4 judged", "75%", "1 fixed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHistory_ExpandShowsMisses(t *testing.T) {
	s := loaded(t, testRepo())

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(100, 30)
	if !strings.Contains(view, "if (valx} { }") || !strings.Contains(view, "said valid, was invalid") {
		t.Errorf("expected the missed snippet:\n%s", view)
	}
	if strings.Contains(view, "'abc'") {
		t.Error("correct judgments are not misses")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 30), "No misses this session") {
		t.Error("expected the no-miss note for the second session")
	}
}

func TestHistory_Navigation(t *testing.T) {
	s := loaded(t, testRepo())
	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1 (clamped)", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop the screen")
	}
}

func TestHistory_Empty(t *testing.T) {
	view := loaded(t, &fakeRepo{}).View(100, 30)
	if !strings.Contains(view, "No sessions yet") {
		t.Errorf("expected empty-state text:\n%s", view)
	}
}

func TestHistory_Error(t *testing.T) {
	view := loaded(t, &fakeRepo{err: errors.New("database is locked")}).View(100, 30)
	if !strings.Contains(view, "database is locked") {
		t.Errorf("expected the error:\n%s", view)
	}
}
