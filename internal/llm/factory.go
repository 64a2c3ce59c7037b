package llm

import (
	"fmt"

	"github.com/cybrdelic/repotronium/internal/config"
)

// NewProvider builds the LLM provider described by cfg. Credentials are
// taken from the config object rather than the process environment, so a
// re-read config applies cleanly per request. The provider is wrapped in a
// rate limiter when cfg.RequestsPerMinute is set.
func NewProvider(cfg *config.Config) (Provider, error) {
	var provider Provider

	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("llm: OpenAI API key is not configured (set OPENAI_API_KEY)")
		}
		provider = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.Model)

	case config.ProviderOllama:
		provider = NewOllamaProvider("http://localhost:11434", cfg.Model)

	default:
		return nil, fmt.Errorf("llm: unsupported provider type: %s", cfg.Provider)
	}

	if cfg.RequestsPerMinute > 0 {
		provider = NewRateLimitedProvider(provider, cfg.RequestsPerMinute)
	}
	return provider, nil
}
