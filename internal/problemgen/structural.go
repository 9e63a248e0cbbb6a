package problemgen

import "strings"

// maxSnippetLen bounds generated snippet length.
const maxSnippetLen = 200

// StructuralValidator checks that the text is present and the provenance
// fields name real taxonomy entries.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem) *ValidationError {
	if strings.TrimSpace(p.Text) == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "snippet text is empty",
			Retryable: true,
		}
	}
	if len(p.Text) > maxSnippetLen {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "snippet exceeds 200 characters",
			Retryable: true,
		}
	}
	if !p.Variant.Known() {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "unknown variant " + string(p.Variant),
		}
	}
	if p.Variant.Category() != p.Category {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "variant " + string(p.Variant) + " does not belong to category " + string(p.Category),
		}
	}
	if p.Variant.Valid() != p.ExpectValid {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "expect_valid disagrees with the taxonomy",
		}
	}
	return nil
}
