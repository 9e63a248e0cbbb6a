package explain

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/syntaxiz/internal/llm"
)

// Service produces explanations for wrong judgments. Rule-based text is
// always available; an LLM refines it when a provider is configured.
type Service struct {
	explainer *Explainer
	logger    *zap.SugaredLogger
}

// NewService creates an explanation service. If provider is nil, only
// rule-based explanations are produced.
func NewService(provider llm.Provider, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Service{logger: logger}
	if provider != nil {
		s.explainer = NewExplainer(provider, DefaultExplainerConfig())
	}
	return s
}

// HasLLM reports whether Refine can reach a provider.
func (s *Service) HasLLM() bool {
	return s != nil && s.explainer != nil
}

// Rules returns the synchronous rule-based explanation.
func (s *Service) Rules(req Request) *Explanation {
	return Rules(req)
}

// Refine asks the LLM for an explanation and falls back to the rule-based
// one on any failure. It blocks for the provider round trip, so callers
// on an interactive path run it off the main loop.
func (s *Service) Refine(ctx context.Context, req Request) *Explanation {
	base := Rules(req)
	if !s.HasLLM() {
		return base
	}

	ex, err := s.explainer.Explain(ctx, req)
	if err != nil {
		s.logger.Warnw("llm explanation unavailable, using rules", "error", err)
		return base
	}
	if ex.SuggestedFix == "" {
		ex.SuggestedFix = base.SuggestedFix
	}
	return ex
}
