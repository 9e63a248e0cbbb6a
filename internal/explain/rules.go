package explain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/syntaxiz/internal/problemgen"
)

// variantNotes holds the hand-written explanation for each variant.
var variantNotes = map[problemgen.Variant]string{
	problemgen.VariantLoopMissingFirstSemi:    "A for-loop header has three parts separated by two semicolons. The semicolon after the initializer is missing.",
	problemgen.VariantLoopMissingSecondSemi:   "A for-loop header has three parts separated by two semicolons. The semicolon after the condition is missing.",
	problemgen.VariantLoopCorrect:             "The header has an initializer, a condition and an update separated by two semicolons, so it parses.",
	problemgen.VariantQuotesMatched:           "The string opens and closes with the same quote character, so it parses.",
	problemgen.VariantQuotesMismatched:        "A string must close with the same quote character it opened with. Here the closing quote differs, so the string never ends.",
	problemgen.VariantBracketsMatched:         "Every ( is closed by ) and every { by }, so it parses.",
	problemgen.VariantBracketsMismatchedParen: "The ( is closed by the wrong bracket. Parentheses must close with ).",
	problemgen.VariantBracketsMismatchedBrace: "The { is closed by the wrong bracket. Braces must close with }.",
	problemgen.VariantEqualitySingle:          "A single = assigns. A number literal cannot be assigned to, so the condition does not parse. Compare with == or ===.",
	problemgen.VariantEqualityDouble:          "== is loose equality. It is a valid comparison even though === is usually preferred.",
	problemgen.VariantEqualityTriple:          "=== is strict equality and a valid comparison.",
}

// Rules builds an explanation from the taxonomy alone. It never fails.
func Rules(req Request) *Explanation {
	p := req.Problem
	if p == nil {
		return &Explanation{Text: "No snippet to explain.", Source: SourceRules}
	}

	note, ok := variantNotes[p.Variant]
	if !ok {
		note = p.Variant.Summary()
	}

	var b strings.Builder
	if req.Valid() {
		b.WriteString("This snippet is valid JavaScript. ")
	} else {
		b.WriteString("This snippet is not valid JavaScript. ")
	}
	b.WriteString(note)
	if req.Failure != nil {
		fmt.Fprintf(&b, "\nParser: %s", req.Failure.Error())
	}

	ex := &Explanation{Text: b.String(), Source: SourceRules}
	if !req.Valid() {
		ex.SuggestedFix = SuggestFix(p)
	}
	return ex
}

var loopBound = regexp.MustCompile(`< (\d+) `)

// SuggestFix rewrites an invalid snippet into its valid counterpart.
// It returns "" for valid variants or text it does not recognize.
func SuggestFix(p *problemgen.Problem) string {
	text := p.Text
	switch p.Variant {
	case problemgen.VariantLoopMissingFirstSemi:
		return strings.Replace(text, "= 0 ", "= 0; ", 1)
	case problemgen.VariantLoopMissingSecondSemi:
		return loopBound.ReplaceAllString(text, "< $1; ")
	case problemgen.VariantQuotesMismatched:
		if len(text) < 2 {
			return ""
		}
		return text[:len(text)-1] + text[:1]
	case problemgen.VariantBracketsMismatchedParen:
		i := strings.LastIndex(text, " {")
		if i < 1 {
			return ""
		}
		return text[:i-1] + ")" + text[i:]
	case problemgen.VariantBracketsMismatchedBrace:
		if text == "" {
			return ""
		}
		return text[:len(text)-1] + "}"
	case problemgen.VariantEqualitySingle:
		return strings.Replace(text, " = ", " === ", 1)
	default:
		return ""
	}
}
