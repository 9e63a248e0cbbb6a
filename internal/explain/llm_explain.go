package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/syntaxiz/internal/llm"
)

// ExplainerConfig holds configuration for the LLM explainer.
type ExplainerConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultExplainerConfig returns sensible defaults.
func DefaultExplainerConfig() ExplainerConfig {
	return ExplainerConfig{
		MaxTokens:   256,
		Temperature: 0.2,
	}
}

// Explainer asks an LLM to explain a snippet.
type Explainer struct {
	provider llm.Provider
	cfg      ExplainerConfig
}

// NewExplainer creates an LLM-backed explainer.
func NewExplainer(provider llm.Provider, cfg ExplainerConfig) *Explainer {
	return &Explainer{provider: provider, cfg: cfg}
}

type explanationOutput struct {
	Explanation  string `json:"explanation"`
	SuggestedFix string `json:"suggested_fix"`
}

// Explain sends the snippet and the parser verdict to the LLM.
func (e *Explainer) Explain(ctx context.Context, req Request) (*Explanation, error) {
	if req.Problem == nil {
		return nil, fmt.Errorf("explain: no problem")
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)

	userMsg, err := buildExplainMessage(req)
	if err != nil {
		return nil, fmt.Errorf("build explain prompt: %w", err)
	}

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      explainSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      ExplanationSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM explanation failed: %w", err)
	}

	var raw explanationOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse explanation response: %w", err)
	}
	text := strings.TrimSpace(raw.Explanation)
	if text == "" {
		return nil, fmt.Errorf("LLM returned an empty explanation")
	}

	ex := &Explanation{Text: text, Source: SourceLLM}
	if !req.Valid() {
		ex.SuggestedFix = strings.TrimSpace(raw.SuggestedFix)
	}
	return ex, nil
}

const explainSystemPrompt = `You help beginners learn JavaScript syntax. A learner judged whether a short snippet parses and got it wrong.

Instructions:
- The parser verdict is authoritative. Do not contradict it.
- Explain in one or two plain sentences why the snippet does or does not parse.
- If it does not parse, give the smallest rewrite that parses as suggested_fix.
- If it parses, return an empty suggested_fix.
- Do not comment on style, naming or runtime behavior.`

var explainUserTemplate = template.Must(template.New("explain").Parse(`Snippet:
{{.Problem.Text}}

Mistake family: {{.Problem.Category.Label}}
Parser verdict: {{if .Failure}}does not parse ({{.Failure.Error}}){{else}}parses{{end}}
`))

func buildExplainMessage(req Request) (string, error) {
	var buf bytes.Buffer
	if err := explainUserTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
