package session

import (
	"time"

	"github.com/abhisek/syntaxiz/internal/problemgen"
)

// Summary holds the data displayed at the end of a session.
type Summary struct {
	SessionID           string           `json:"session_id"`
	Duration            time.Duration    `json:"duration"`
	ProblemsServed      int              `json:"problems_served"`
	Judgments           int              `json:"judgments"`
	CorrectJudgments    int              `json:"correct_judgments"`
	Accuracy            float64          `json:"accuracy"`
	CorrectionAttempts  int              `json:"correction_attempts"`
	CorrectionsAccepted int              `json:"corrections_accepted"`
	BestStreak          int              `json:"best_streak"`
	Categories          []CategoryResult `json:"categories"`
}

// BuildSummary creates a Summary from the session state. Categories appear
// in taxonomy order and only if attempted.
func BuildSummary(st *State, end time.Time) *Summary {
	var cats []CategoryResult
	for _, c := range problemgen.AllCategories() {
		if cr, ok := st.PerCategory[c]; ok && cr.Attempted > 0 {
			cats = append(cats, *cr)
		}
	}

	var accuracy float64
	if st.Judgments > 0 {
		accuracy = float64(st.CorrectJudgments) / float64(st.Judgments)
	}

	var dur time.Duration
	if !st.StartedAt.IsZero() && end.After(st.StartedAt) {
		dur = end.Sub(st.StartedAt)
	}

	return &Summary{
		SessionID:           st.ID,
		Duration:            dur,
		ProblemsServed:      st.ProblemsServed,
		Judgments:           st.Judgments,
		CorrectJudgments:    st.CorrectJudgments,
		Accuracy:            accuracy,
		CorrectionAttempts:  st.CorrectionAttempts,
		CorrectionsAccepted: st.CorrectionsAccepted,
		BestStreak:          st.BestStreak,
		Categories:          cats,
	}
}
