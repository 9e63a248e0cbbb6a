package llm

import "context"

// Purpose labels recorded with every logged request.
const (
	PurposeExplain = "explain"
	PurposeUnknown = "unknown"
)

type purposeKey struct{}

// WithPurpose tags ctx so the logging decorator can attribute the request.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
