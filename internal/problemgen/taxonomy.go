package problemgen

import (
	"fmt"
	"strings"
)

// variantSpec is one row of the taxonomy table.
type variantSpec struct {
	category Category
	valid    bool
	summary  string
	build    func(src Source) string
}

// categoryVariants lists the variants of each category in display order.
var categoryVariants = map[Category][]Variant{
	CategoryForLoop: {
		VariantLoopMissingFirstSemi,
		VariantLoopMissingSecondSemi,
		VariantLoopCorrect,
	},
	CategoryQuotes: {
		VariantQuotesMatched,
		VariantQuotesMismatched,
	},
	CategoryBrackets: {
		VariantBracketsMatched,
		VariantBracketsMismatchedParen,
		VariantBracketsMismatchedBrace,
	},
	CategoryEquality: {
		VariantEqualitySingle,
		VariantEqualityDouble,
		VariantEqualityTriple,
	},
}

var taxonomy = map[Variant]variantSpec{
	VariantLoopMissingFirstSemi: {
		category: CategoryForLoop,
		summary:  "for-loop header missing the semicolon after the initializer",
		build:    func(src Source) string { return buildLoop(src, loopDropFirst) },
	},
	VariantLoopMissingSecondSemi: {
		category: CategoryForLoop,
		summary:  "for-loop header missing the semicolon after the condition",
		build:    func(src Source) string { return buildLoop(src, loopDropSecond) },
	},
	VariantLoopCorrect: {
		category: CategoryForLoop,
		valid:    true,
		summary:  "well-formed for-loop header",
		build:    func(src Source) string { return buildLoop(src, loopIntact) },
	},
	VariantQuotesMatched: {
		category: CategoryQuotes,
		valid:    true,
		summary:  "string opened and closed with the same quote",
		build:    buildMatchedQuotes,
	},
	VariantQuotesMismatched: {
		category: CategoryQuotes,
		summary:  "string opened and closed with different quotes",
		build:    buildMismatchedQuotes,
	},
	VariantBracketsMatched: {
		category: CategoryBrackets,
		valid:    true,
		summary:  "every bracket closed by its partner",
		build:    func(src Source) string { return buildBlock(src, closeParen, closeBrace) },
	},
	VariantBracketsMismatchedParen: {
		category: CategoryBrackets,
		summary:  "opening ( closed by the wrong bracket",
		build: func(src Source) string {
			return buildBlock(src, wrongCloser(src, "}", "]"), closeBrace)
		},
	},
	VariantBracketsMismatchedBrace: {
		category: CategoryBrackets,
		summary:  "opening { closed by the wrong bracket",
		build: func(src Source) string {
			return buildBlock(src, closeParen, wrongCloser(src, ")", "]"))
		},
	},
	VariantEqualitySingle: {
		category: CategoryEquality,
		summary:  "assignment = used where a comparison belongs",
		build:    func(src Source) string { return buildCondition(src, "=") },
	},
	VariantEqualityDouble: {
		category: CategoryEquality,
		valid:    true,
		summary:  "loose equality == in a condition",
		build:    func(src Source) string { return buildCondition(src, "==") },
	},
	VariantEqualityTriple: {
		category: CategoryEquality,
		valid:    true,
		summary:  "strict equality === in a condition",
		build:    func(src Source) string { return buildCondition(src, "===") },
	},
}

// VariantsOf returns the variants of a category in table order.
func VariantsOf(c Category) []Variant {
	vs := categoryVariants[c]
	out := make([]Variant, len(vs))
	copy(out, vs)
	return out
}

// Category returns the category a variant belongs to, or "" if unknown.
func (v Variant) Category() Category {
	return taxonomy[v].category
}

// Valid reports whether the variant is its category's valid baseline.
func (v Variant) Valid() bool {
	return taxonomy[v].valid
}

// Known reports whether the variant is in the taxonomy table.
func (v Variant) Known() bool {
	_, ok := taxonomy[v]
	return ok
}

// Summary is a one-line description of the mistake (or its absence).
func (v Variant) Summary() string {
	return taxonomy[v].summary
}

// Build produces a problem for a single variant.
func Build(v Variant, src Source) (*Problem, error) {
	spec, ok := taxonomy[v]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q", v)
	}
	return &Problem{
		Text:        spec.build(src),
		Category:    spec.category,
		Variant:     v,
		ExpectValid: spec.valid,
	}, nil
}

// --- for-loop ---

type loopMode int

const (
	loopIntact loopMode = iota
	loopDropFirst
	loopDropSecond
)

var loopVars = []string{"i", "j", "k", "x", "y", "n"}

func buildLoop(src Source, mode loopMode) string {
	name := loopVars[pick(src, len(loopVars))]
	bound := 1 + pick(src, 20)

	sep1, sep2 := "; ", "; "
	switch mode {
	case loopDropFirst:
		sep1 = " "
	case loopDropSecond:
		sep2 = " "
	}
	return fmt.Sprintf("for (let %s = 0%s%s < %d%s%s++) {\n\n}",
		name, sep1, name, bound, sep2, name)
}

// --- quotes ---

var quoteChars = []string{"'", `"`, "`"}

func buildMatchedQuotes(src Source) string {
	q := quoteChars[pick(src, len(quoteChars))]
	return q + Fragment(src) + q
}

func buildMismatchedQuotes(src Source) string {
	first := pick(src, len(quoteChars))
	// Offset by 1 or 2 so the closing quote always differs.
	second := (first + 1 + pick(src, len(quoteChars)-1)) % len(quoteChars)
	return quoteChars[first] + Fragment(src) + quoteChars[second]
}

// --- brackets ---

const (
	closeParen = ")"
	closeBrace = "}"
)

func wrongCloser(src Source, options ...string) string {
	return options[pick(src, len(options))]
}

func buildBlock(src Source, parenClose, braceClose string) string {
	var head string
	switch pick(src, 3) {
	case 0:
		head = "if (val" + Fragment(src) + parenClose
	case 1:
		head = "while (val" + Fragment(src) + parenClose
	default:
		head = "function fn" + Fragment(src) + "(" + parenClose
	}
	return head + " {\n\n" + braceClose
}

// --- equality ---

func buildCondition(src Source, op string) string {
	lit := 1 + pick(src, 9)
	return fmt.Sprintf("if (%d %s val%s) {\n\n}", lit, op, Fragment(src))
}

// Describe renders the taxonomy table as indented text.
func Describe() string {
	var b strings.Builder
	for _, c := range AllCategories() {
		fmt.Fprintf(&b, "%s (%s)\n", c, c.Label())
		for _, v := range categoryVariants[c] {
			mark := "invalid"
			if v.Valid() {
				mark = "valid"
			}
			fmt.Fprintf(&b, "  %-26s %-7s %s\n", v, mark, v.Summary())
		}
	}
	return b.String()
}
