// Package syntaxcheck decides whether a JavaScript snippet parses.
package syntaxcheck

import (
	"errors"
	"fmt"

	"github.com/dop251/goja/parser"
)

// Checker is a parse oracle. Check must be pure: the same source always
// yields the same Result.
type Checker interface {
	Check(src string) Result
}

// Result is the outcome of a parse check. Failure is nil when the source
// parsed.
type Result struct {
	Failure *ParseFailure `json:"failure,omitempty"`
}

// Valid reports whether the source parsed.
func (r Result) Valid() bool { return r.Failure == nil }

// ParseFailure is the parser's first complaint about a snippet.
// Line and Column are 1-based; both are 0 when the parser gave no position.
type ParseFailure struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func (f *ParseFailure) Error() string {
	if f.Line == 0 {
		return f.Message
	}
	return fmt.Sprintf("line %d:%d: %s", f.Line, f.Column, f.Message)
}

// GojaChecker parses snippets as scripts with goja's ES parser.
type GojaChecker struct{}

// New returns the default Checker.
func New() *GojaChecker { return &GojaChecker{} }

func (GojaChecker) Check(src string) Result {
	_, err := parser.ParseFile(nil, "", src, 0, parser.WithDisableSourceMaps)
	if err == nil {
		return Result{}
	}
	return Result{Failure: failureFrom(err)}
}

func failureFrom(err error) *ParseFailure {
	var list parser.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		first := list[0]
		return &ParseFailure{
			Message: first.Message,
			Line:    first.Position.Line,
			Column:  first.Position.Column,
		}
	}
	var single *parser.Error
	if errors.As(err, &single) {
		return &ParseFailure{
			Message: single.Message,
			Line:    single.Position.Line,
			Column:  single.Position.Column,
		}
	}
	return &ParseFailure{Message: err.Error()}
}
