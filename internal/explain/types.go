package explain

import (
	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

// Source names what produced an explanation.
type Source string

const (
	SourceRules Source = "rules"
	SourceLLM   Source = "llm"
)

// Request describes a judgment the learner got wrong.
type Request struct {
	Problem *problemgen.Problem

	// Failure is the parser's verdict on the snippet, nil when it parses.
	Failure *syntaxcheck.ParseFailure
}

// Valid reports whether the snippet parsed.
func (r Request) Valid() bool {
	return r.Failure == nil
}

// Explanation is shown next to the feedback for a wrong judgment.
type Explanation struct {
	Text string `json:"text"`

	// SuggestedFix is display-only. It is never graded.
	SuggestedFix string `json:"suggested_fix,omitempty"`

	Source Source `json:"source"`
}
