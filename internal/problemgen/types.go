package problemgen

import (
	"fmt"
	"strings"
)

// Problem represents a generated snippet ready for display.
type Problem struct {
	// Text is the JavaScript source shown to the learner.
	// Multi-line snippets use "\n", e.g. "for (let i = 0; i < 5; i++) {\n\n}".
	Text string `json:"text"`

	// Category is the family of syntax mistake this snippet was drawn from.
	Category Category `json:"category"`

	// Variant is the concrete taxonomy entry that built Text.
	Variant Variant `json:"variant"`

	// ExpectValid records whether the variant is the category's valid
	// baseline. Grading never reads it; the parse check is the only oracle.
	ExpectValid bool `json:"expect_valid"`
}

// Category is a family of syntax mistakes.
type Category string

const (
	CategoryForLoop  Category = "for-loop" // malformed for-loop headers
	CategoryQuotes   Category = "quotes"   // mismatched string quote characters
	CategoryBrackets Category = "brackets" // mismatched ( [ { pairs
	CategoryEquality Category = "equality" // = versus == in conditions
)

// AllCategories returns every category in taxonomy order.
func AllCategories() []Category {
	return []Category{
		CategoryForLoop,
		CategoryQuotes,
		CategoryBrackets,
		CategoryEquality,
	}
}

// ParseCategory resolves a category name (case-insensitive).
func ParseCategory(s string) (Category, error) {
	name := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range AllCategories() {
		if c == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Label returns a human-readable name for display.
func (c Category) Label() string {
	switch c {
	case CategoryForLoop:
		return "For loops"
	case CategoryQuotes:
		return "String quotes"
	case CategoryBrackets:
		return "Brackets"
	case CategoryEquality:
		return "Equality"
	default:
		return string(c)
	}
}

// Variant identifies one entry of the taxonomy table.
type Variant string

const (
	VariantLoopMissingFirstSemi  Variant = "missing-first-semicolon"
	VariantLoopMissingSecondSemi Variant = "missing-second-semicolon"
	VariantLoopCorrect           Variant = "correct"

	VariantQuotesMatched    Variant = "matched-quotes"
	VariantQuotesMismatched Variant = "mismatched-quotes"

	VariantBracketsMatched         Variant = "matched-block"
	VariantBracketsMismatchedParen Variant = "mismatched-paren"
	VariantBracketsMismatchedBrace Variant = "mismatched-brace"

	VariantEqualitySingle Variant = "single-equals"
	VariantEqualityDouble Variant = "double-equals"
	VariantEqualityTriple Variant = "triple-equals"
)
