package explain

import "github.com/abhisek/syntaxiz/internal/llm"

// ExplanationSchema defines the JSON schema for LLM explanations.
var ExplanationSchema = &llm.Schema{
	Name:        "syntax-explanation",
	Description: "Short explanation of why a JavaScript snippet does or does not parse",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "One or two sentences a beginner can follow",
			},
			"suggested_fix": map[string]any{
				"type":        "string",
				"description": "The snippet rewritten so it parses, or an empty string when it already parses",
			},
		},
		"required":             []any{"explanation", "suggested_fix"},
		"additionalProperties": false,
	},
}
