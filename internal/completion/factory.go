package completion

import (
	"context"
	"fmt"
	"time"
)

// Config selects and configures a provider.
type Config struct {
	Provider Provider
	Timeout  time.Duration

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiAPIKey string
	GeminiModel  string
}

// New creates the Client for cfg.Provider. An empty provider means OpenAI.
func New(ctx context.Context, cfg Config) (Client, error) {
	httpClient := NewHTTPClient(cfg.Timeout)

	switch cfg.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			HTTPClient: httpClient,
		})
	case ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			HTTPClient: httpClient,
		})
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
