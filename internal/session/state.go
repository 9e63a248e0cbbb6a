package session

import (
	"time"

	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

// Phase is where the live problem sits in its lifecycle.
type Phase string

const (
	PhasePresented  Phase = "presented"  // waiting for a judgment
	PhaseGraded     Phase = "graded"     // judgment graded, no correction owed
	PhaseCorrecting Phase = "correcting" // waiting for a revision that parses
	PhaseCorrected  Phase = "corrected"  // revision accepted; next problem follows
)

// State tracks one learner session. It is plain data so it can be held by
// a TUI model, stored in a registry, or serialized to JSON.
type State struct {
	// ID is the UUID for this session.
	ID string `json:"id"`

	// Problem is the live snippet.
	Problem *problemgen.Problem `json:"problem,omitempty"`

	// Phase is the live problem's phase.
	Phase Phase `json:"phase"`

	// LastGrade is the grade of the most recent judgment on the live problem.
	LastGrade *Grade `json:"last_grade,omitempty"`

	// LastCorrection is the most recent correction attempt.
	LastCorrection *CorrectionResult `json:"last_correction,omitempty"`

	ProblemsServed      int `json:"problems_served"`
	Judgments           int `json:"judgments"`
	CorrectJudgments    int `json:"correct_judgments"`
	CorrectionAttempts  int `json:"correction_attempts"`
	CorrectionsAccepted int `json:"corrections_accepted"`

	// Streak counts consecutive correct judgments; BestStreak is its maximum.
	Streak     int `json:"streak"`
	BestStreak int `json:"best_streak"`

	// PerCategory tracks judgment results by category.
	PerCategory map[problemgen.Category]*CategoryResult `json:"per_category"`

	StartedAt   time.Time `json:"started_at"`
	PresentedAt time.Time `json:"presented_at"`
}

// CategoryResult tracks judgment performance for one category.
type CategoryResult struct {
	Category  problemgen.Category `json:"category"`
	Attempted int                 `json:"attempted"`
	Correct   int                 `json:"correct"`
}

// Accuracy returns Correct/Attempted, or 0 when nothing was attempted.
func (c CategoryResult) Accuracy() float64 {
	if c.Attempted == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Attempted)
}

// CorrectionResult is the outcome of one correction attempt.
type CorrectionResult struct {
	Revision string                    `json:"revision"`
	Accepted bool                      `json:"accepted"`
	Failure  *syntaxcheck.ParseFailure `json:"failure,omitempty"`

	// Corrected is the problem the revision fixed, set when Accepted.
	Corrected *problemgen.Problem `json:"corrected,omitempty"`
}

// NewState creates an empty state with initialized maps.
func NewState(id string, now time.Time) *State {
	return &State{
		ID:          id,
		PerCategory: make(map[problemgen.Category]*CategoryResult),
		StartedAt:   now,
	}
}

func (st *State) record(cat problemgen.Category, correct bool) {
	st.Judgments++
	if st.PerCategory == nil {
		st.PerCategory = make(map[problemgen.Category]*CategoryResult)
	}
	cr := st.PerCategory[cat]
	if cr == nil {
		cr = &CategoryResult{Category: cat}
		st.PerCategory[cat] = cr
	}
	cr.Attempted++

	if correct {
		st.CorrectJudgments++
		cr.Correct++
		st.Streak++
		if st.Streak > st.BestStreak {
			st.BestStreak = st.Streak
		}
	} else {
		st.Streak = 0
	}
}
