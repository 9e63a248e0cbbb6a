package problemgen

// Config controls the behavior of the TaxonomyGenerator.
type Config struct {
	// Categories restricts generation to these categories. Empty means all.
	Categories []Category

	// Validators is the ordered list of validators run on every generated
	// problem. They execute in order; the first failure stops the chain.
	Validators []Validator

	// MaxAttempts bounds how many candidates are drawn when validation
	// fails.
	MaxAttempts int
}

// DefaultConfig returns a Config with every category and the structural
// validator.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
		},
		MaxAttempts: 3,
	}
}

// ParseCategories resolves a list of category names.
func ParseCategories(names []string) ([]Category, error) {
	var out []Category
	for _, n := range names {
		if n == "" {
			continue
		}
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
