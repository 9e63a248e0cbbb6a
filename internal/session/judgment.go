package session

import (
	"errors"
	"fmt"
	"strings"
)

// Judgment is the learner's claim about a snippet.
type Judgment string

const (
	JudgmentValid   Judgment = "valid"
	JudgmentInvalid Judgment = "invalid"
)

// ErrUnknownJudgment is returned for input that names neither judgment.
var ErrUnknownJudgment = errors.New("unknown judgment")

// ParseJudgment accepts "valid", "v", "y" and "invalid", "i", "n"
// (case-insensitive, surrounding space ignored).
func ParseJudgment(s string) (Judgment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "valid", "v", "y", "yes":
		return JudgmentValid, nil
	case "invalid", "i", "n", "no":
		return JudgmentInvalid, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownJudgment, s)
}

// judgmentOf maps parse validity to the judgment that would be correct.
func judgmentOf(valid bool) Judgment {
	if valid {
		return JudgmentValid
	}
	return JudgmentInvalid
}
