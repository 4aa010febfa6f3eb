package llm

import (
	"context"
	"fmt"
)

// New creates the configured provider wrapped with request logging. The
// mock provider answers every request with SampleResponse.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModels[cfg.Provider]
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderMock:
		m := NewMockProvider()
		m.Fallback = SampleResponse
		base = m
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithLogging(base, cfg.Timeout), nil
}
