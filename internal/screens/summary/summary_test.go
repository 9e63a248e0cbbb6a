package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/router"
	"github.com/abhisek/syntaxiz/internal/session"
)

func testSummary() *session.Summary {
	return &session.Summary{
		SessionID:           "s-1",
		Duration:            4*time.Minute + 5*time.Second,
		ProblemsServed:      9,
		Judgments:           8,
		CorrectJudgments:    6,
		Accuracy:            0.75,
		CorrectionAttempts:  3,
		CorrectionsAccepted: 2,
		BestStreak:          4,
		Categories: []session.CategoryResult{
			{Category: problemgen.CategoryForLoop, Attempted: 5, Correct: 4},
			{Category: problemgen.CategoryQuotes, Attempted: 3, Correct: 2},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testSummary()).View(100, 30)
	for _, want := range []string{"Session complete", "4:05", "For loops", "String quotes", "6/8", "Fixes accepted 2 of 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Brackets") {
		t.Error("unattempted category should not be listed")
	}
}

func TestSummaryScreen_Headline(t *testing.T) {
	tests := []struct {
		judged   int
		accuracy float64
		want     string
	}{
		{0, 0, "No snippets judged"},
		{10, 0.9, "Sharp eyes!"},
		{10, 0.6, "Session complete"},
		{10, 0.2, "Keep practicing"},
	}
	for _, tt := range tests {
		got := headline(&session.Summary{Judgments: tt.judged, Accuracy: tt.accuracy})
		if got != tt.want {
			t.Errorf("headline(%d, %.1f) = %q, want %q", tt.judged, tt.accuracy, got, tt.want)
		}
	}
}

func TestSummaryScreen_NilSummary(t *testing.T) {
	if view := New(nil).View(80, 24); view != "" {
		t.Errorf("expected empty view, got %q", view)
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{
		{Code: tea.KeyEnter},
		{Code: tea.KeyEscape},
		{Code: 'q', Text: "q"},
	} {
		_, cmd := New(testSummary()).Update(key)
		if cmd == nil {
			t.Fatalf("expected a command on %q", key.String())
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("%q: expected PopScreenMsg", key.String())
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	if hints := New(testSummary()).KeyHints(); len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
