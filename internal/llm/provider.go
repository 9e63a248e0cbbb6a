// Package llm is a small provider-neutral client for structured JSON
// generation, with retry, timeout and request logging decorators.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one response for one request.
type Provider interface {
	// Generate returns validated JSON when req.Schema is set and the raw
	// text otherwise.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Request struct {
	System   string
	Messages []Message

	// Schema asks the provider for JSON through its native structured
	// output mode. The reply is validated against it.
	Schema *Schema

	MaxTokens int

	// Temperature is passed through when positive; zero leaves the
	// provider default.
	Temperature float64
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is a kebab-case identifier. Providers that name their response
	// formats use it, and compiled validators are cached by it.
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually served the call, which can differ
	// from the configured alias.
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a short alias to a provider model ID. Anything else
// is passed through as a literal model ID.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
