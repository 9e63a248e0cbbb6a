package server

import (
	"github.com/abhisek/syntaxiz/internal/explain"
	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/session"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

// problemView hides the variant so the answer is not in the payload.
type problemView struct {
	Text     string              `json:"text"`
	Category problemgen.Category `json:"category"`
}

func viewProblem(p *problemgen.Problem) *problemView {
	if p == nil {
		return nil
	}
	return &problemView{Text: p.Text, Category: p.Category}
}

type startResponse struct {
	SessionID string        `json:"session_id"`
	Problem   *problemView  `json:"problem"`
	Phase     session.Phase `json:"phase"`
}

type sessionResponse struct {
	SessionID           string        `json:"session_id"`
	Problem             *problemView  `json:"problem"`
	Phase               session.Phase `json:"phase"`
	ProblemsServed      int           `json:"problems_served"`
	Judgments           int           `json:"judgments"`
	CorrectJudgments    int           `json:"correct_judgments"`
	CorrectionAttempts  int           `json:"correction_attempts"`
	CorrectionsAccepted int           `json:"corrections_accepted"`
	Streak              int           `json:"streak"`
	BestStreak          int           `json:"best_streak"`
}

func viewSession(st *session.State) sessionResponse {
	return sessionResponse{
		SessionID:           st.ID,
		Problem:             viewProblem(st.Problem),
		Phase:               st.Phase,
		ProblemsServed:      st.ProblemsServed,
		Judgments:           st.Judgments,
		CorrectJudgments:    st.CorrectJudgments,
		CorrectionAttempts:  st.CorrectionAttempts,
		CorrectionsAccepted: st.CorrectionsAccepted,
		Streak:              st.Streak,
		BestStreak:          st.BestStreak,
	}
}

type judgmentRequest struct {
	Judgment string `json:"judgment"`
}

type judgmentResponse struct {
	Correct     bool                      `json:"correct"`
	Actual      session.Judgment          `json:"actual"`
	Variant     problemgen.Variant        `json:"variant"`
	Phase       session.Phase             `json:"phase"`
	Failure     *syntaxcheck.ParseFailure `json:"failure,omitempty"`
	Explanation *explain.Explanation      `json:"explanation,omitempty"`
}

type correctionRequest struct {
	Code string `json:"code"`
}

type correctionResponse struct {
	Accepted bool                      `json:"accepted"`
	Failure  *syntaxcheck.ParseFailure `json:"failure,omitempty"`
	Phase    session.Phase             `json:"phase"`
	Problem  *problemView              `json:"problem"`
}

type nextResponse struct {
	Problem *problemView  `json:"problem"`
	Phase   session.Phase `json:"phase"`
}

type checkRequest struct {
	Code string `json:"code"`
}

type checkResponse struct {
	Valid   bool                      `json:"valid"`
	Failure *syntaxcheck.ParseFailure `json:"failure,omitempty"`
}

type variantView struct {
	Variant problemgen.Variant `json:"variant"`
	Valid   bool               `json:"valid"`
	Summary string             `json:"summary"`
}

type categoryView struct {
	Category problemgen.Category `json:"category"`
	Label    string              `json:"label"`
	Variants []variantView       `json:"variants"`
}

func viewCategories(cats []problemgen.Category) []categoryView {
	out := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		cv := categoryView{Category: c, Label: c.Label()}
		for _, v := range problemgen.VariantsOf(c) {
			cv.Variants = append(cv.Variants, variantView{Variant: v, Valid: v.Valid(), Summary: v.Summary()})
		}
		out = append(out, cv)
	}
	return out
}
