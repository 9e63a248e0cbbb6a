package problemgen

import (
	"fmt"
	"sync"
)

// Generator produces syntax-quiz snippets.
type Generator interface {
	// Generate returns the next problem. It never fails and never returns
	// an empty snippet.
	Generate() *Problem
}

// TaxonomyGenerator implements Generator over the fixed taxonomy table.
// A category is picked uniformly from the configured set, then a variant
// is picked uniformly within it.
type TaxonomyGenerator struct {
	mu         sync.Mutex
	src        Source
	categories []Category
	config     Config
}

// New creates a TaxonomyGenerator. An empty category list enables every
// category; an unknown category is an error.
func New(src Source, cfg Config) (*TaxonomyGenerator, error) {
	if src == nil {
		return nil, fmt.Errorf("problemgen: nil random source")
	}

	cats := cfg.Categories
	if len(cats) == 0 {
		cats = AllCategories()
	}
	seen := make(map[Category]bool, len(cats))
	var uniq []Category
	for _, c := range cats {
		if _, ok := categoryVariants[c]; !ok {
			return nil, fmt.Errorf("problemgen: unknown category %q", c)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		uniq = append(uniq, c)
	}

	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &TaxonomyGenerator{src: src, categories: uniq, config: cfg}, nil
}

// Categories returns the enabled categories.
func (g *TaxonomyGenerator) Categories() []Category {
	out := make([]Category, len(g.categories))
	copy(out, g.categories)
	return out
}

// Generate draws a problem and runs the configured validators on it.
// A candidate that fails a retryable check is redrawn up to MaxAttempts
// times; the last candidate is returned regardless.
func (g *TaxonomyGenerator) Generate() *Problem {
	g.mu.Lock()
	defer g.mu.Unlock()

	var p *Problem
	for attempt := 0; attempt < g.config.MaxAttempts; attempt++ {
		p = g.draw()
		if verr := g.validate(p); verr == nil || !verr.Retryable {
			break
		}
	}
	return p
}

func (g *TaxonomyGenerator) draw() *Problem {
	cat := g.categories[pick(g.src, len(g.categories))]
	variants := categoryVariants[cat]
	v := variants[pick(g.src, len(variants))]

	spec := taxonomy[v]
	return &Problem{
		Text:        spec.build(g.src),
		Category:    cat,
		Variant:     v,
		ExpectValid: spec.valid,
	}
}

func (g *TaxonomyGenerator) validate(p *Problem) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(p); verr != nil {
			return verr
		}
	}
	return nil
}
