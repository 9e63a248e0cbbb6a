package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "anthropic/claude-haiku-4-5"})
	require.Error(t, err, "missing key")

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-haiku-4-5"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-haiku-4-5", p.ModelID(), "vendor/model IDs pass through untouched")
}
