// Package llm asks a hosted model one structured question at a time and
// checks the JSON it sends back. It backs the chat bot's /ask command.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Request defaults for short spoken answers.
const (
	DefaultMaxTokens = 300
	DefaultPurpose   = "explain"
)

// Provider answers a single Request.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is one system prompt and one user prompt.
type Request struct {
	// Purpose tags the recorded event, e.g. "explain".
	Purpose     string
	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// withDefaults fills the fields a caller left zero.
func (r Request) withDefaults(maxTokens int) Request {
	if r.Purpose == "" {
		r.Purpose = DefaultPurpose
	}
	if r.MaxTokens <= 0 {
		r.MaxTokens = maxTokens
	}
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}

// Response is a validated model answer.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
}

// Usage counts tokens for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// finish turns raw model text into a Response. Truncated output fails
// with ErrMaxTokensExceeded before the schema is checked.
func finish(req Request, raw string, usage Usage, model string, truncated bool) (*Response, error) {
	content := json.RawMessage(stripFence(raw))
	if truncated {
		return nil, &ErrMaxTokensExceeded{Content: content, Limit: req.MaxTokens}
	}
	if err := req.Schema.Validate(content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model}, nil
}

// stripFence removes a ```json fence some gateway models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
