package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewProvider builds the provider cfg names and wraps it:
//
//	caller -> defaults -> timeout -> retry -> recording -> vendor
//
// Each attempt is recorded separately. sink and logger may be nil.
func NewProvider(ctx context.Context, cfg Config, sink EventSink, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case "anthropic":
		base, err = newAnthropic(cfg.APIKey, cfg.model(), cfg.baseURL())
	case "openai":
		base, err = newOpenAI(cfg.APIKey, cfg.model(), cfg.baseURL(), true)
	case "openrouter":
		base, err = newOpenAI(cfg.APIKey, cfg.model(), cfg.baseURL(), false)
	case "gemini":
		base, err = newGemini(ctx, cfg.APIKey, cfg.model(), cfg.baseURL())
	case "mock":
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	p := withRecording(base, cfg.Provider, sink, logger)
	p = withRetry(p, cfg.Retry)
	p = withTimeout(p, cfg.Timeout)
	return WithDefaults(p, cfg.MaxTokens), nil
}
