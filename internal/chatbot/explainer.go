package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/aquacheck/internal/llm"
	"github.com/abhisek/aquacheck/internal/measurement"
)

// ExplainerConfig holds LLM settings for /ask answers. A zero MaxTokens
// leaves the limit to the provider's llm.max_tokens.
type ExplainerConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultExplainerConfig keeps answers factual.
func DefaultExplainerConfig() ExplainerConfig {
	return ExplainerConfig{Temperature: 0.3}
}

// Explanation is a structured LLM answer.
type Explanation struct {
	Answer     string   `json:"answer"`
	Parameters []string `json:"parameters"`
}

// Text renders the explanation as a single chat reply. Parameter names
// that are not known measurements are dropped.
func (e *Explanation) Text() string {
	var related []string
	for _, p := range e.Parameters {
		if f, ok := measurement.FieldByName(p); ok {
			related = append(related, f.String())
		}
	}
	answer := strings.TrimSpace(e.Answer)
	if len(related) == 0 {
		return answer
	}
	return fmt.Sprintf("%s (Related: %s)", answer, strings.Join(related, ", "))
}

// Explainer answers free-form questions with an LLM.
type Explainer struct {
	provider llm.Provider
	cfg      ExplainerConfig
}

// NewExplainer creates an Explainer backed by provider.
func NewExplainer(provider llm.Provider, cfg ExplainerConfig) *Explainer {
	return &Explainer{provider: provider, cfg: cfg}
}

// Explain asks the LLM to answer question.
func (e *Explainer) Explain(ctx context.Context, question string) (*Explanation, error) {
	req := llm.Request{
		Purpose:     llm.DefaultPurpose,
		System:      explainSystemPrompt,
		Prompt:      explainPrompt(question),
		Schema:      ExplanationSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}

	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	if strings.TrimSpace(out.Answer) == "" {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("empty answer")}
	}
	return &out, nil
}
