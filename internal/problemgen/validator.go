package problemgen

import (
	"fmt"

	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

// Validator checks a generated problem before it is served.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural".
	Name() string

	// Validate returns nil if the problem passes.
	Validate(p *Problem) *ValidationError
}

// ValidationError describes why a problem failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// ParseAgreementValidator checks that the parser agrees with the
// variant's declared validity.
type ParseAgreementValidator struct {
	Checker syntaxcheck.Checker
}

func (v *ParseAgreementValidator) Name() string { return "parse-agreement" }

func (v *ParseAgreementValidator) Validate(p *Problem) *ValidationError {
	res := v.Checker.Check(p.Text)
	if res.Valid() == p.ExpectValid {
		return nil
	}
	if p.ExpectValid {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("%s snippet should parse: %v", p.Variant, res.Failure),
			Retryable: true,
		}
	}
	return &ValidationError{
		Validator: v.Name(),
		Message:   fmt.Sprintf("%s snippet parsed but should not", p.Variant),
		Retryable: true,
	}
}
