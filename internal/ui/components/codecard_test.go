package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestCodeCard_LineNumbers(t *testing.T) {
	card := CodeCard{Code: "if (1 = val) {\n\n}", Width: 40}
	view := card.View()

	rows := strings.Split(view, "\n")
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d:\n%s", len(rows), view)
	}
	for i, want := range []string{"1 │", "2 │", "3 │"} {
		if !strings.Contains(rows[i], want) {
			t.Errorf("row %d = %q, want gutter %q", i, rows[i], want)
		}
	}
	if !strings.Contains(rows[0], "if (1 = val) {") {
		t.Errorf("first row lost the code: %q", rows[0])
	}
}

func TestCodeCard_ErrorMarker(t *testing.T) {
	card := CodeCard{Code: "for (let i = 0 i < 3; i++) {\n\n}", ErrorLine: 1, Width: 50}
	rows := strings.Split(card.View(), "\n")
	if !strings.Contains(rows[0], "◂") {
		t.Errorf("expected marker on line 1: %q", rows[0])
	}
	if strings.Contains(rows[2], "◂") {
		t.Errorf("unexpected marker on line 3: %q", rows[2])
	}
}

func TestCodeCard_PadsToWidth(t *testing.T) {
	card := CodeCard{Code: "'abc'", Width: 30}
	if w := lipgloss.Width(card.View()); w != 30 {
		t.Errorf("width = %d, want 30", w)
	}
}

func TestAccuracyBar_Percent(t *testing.T) {
	tests := []struct {
		correct, attempted int
		want               float64
	}{
		{0, 0, 0},
		{3, 4, 0.75},
		{5, 5, 1},
		{7, 5, 1},
	}
	for _, tt := range tests {
		bar := AccuracyBar{Correct: tt.correct, Attempted: tt.attempted, Width: 40}
		if got := bar.Percent(); got != tt.want {
			t.Errorf("Percent(%d/%d) = %v, want %v", tt.correct, tt.attempted, got, tt.want)
		}
		if !strings.Contains(bar.View(), "%") {
			t.Errorf("view missing percentage: %q", bar.View())
		}
	}
}
