package session

import "github.com/abhisek/syntaxiz/internal/syntaxcheck"

// Grade is the outcome of judging one snippet.
type Grade struct {
	Judgment Judgment                  `json:"judgment"`
	Actual   Judgment                  `json:"actual"`
	Correct  bool                      `json:"correct"`
	Failure  *syntaxcheck.ParseFailure `json:"failure,omitempty"`
}

// OpensCorrection reports whether this grade starts the correction flow:
// the learner correctly called an invalid snippet invalid.
func (g Grade) OpensCorrection() bool {
	return g.Correct && g.Actual == JudgmentInvalid
}

// Evaluate grades a judgment by parsing the snippet. It has no side effects,
// so repeated calls with the same input agree.
func Evaluate(checker syntaxcheck.Checker, snippet string, j Judgment) Grade {
	res := checker.Check(snippet)
	actual := judgmentOf(res.Valid())
	return Grade{
		Judgment: j,
		Actual:   actual,
		Correct:  j == actual,
		Failure:  res.Failure,
	}
}
