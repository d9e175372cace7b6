package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reibun/reibunbot/internal/config"
)

// NewClient creates and returns a Client based on the provided configuration.
// It acts as a factory, selecting either the OpenAI-compatible or Gemini implementation,
// and guards the result with a circuit breaker.
func NewClient(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (Client, error) {
	if log == nil {
		log = slog.Default()
	}
	logger := log.With("component", "ai_client", "provider", cfg.Provider)

	switch cfg.Provider {
	case "openai":
		client, err := newOpenAIClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		logger.Info("AI client initialized", "model", cfg.Model, "base_url", client.baseURL)
		return WithCircuitBreaker(client, DefaultBreakerConfig(), logger), nil
	case "gemini":
		client, err := newGeminiClient(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		logger.Info("AI client initialized", "model", cfg.Model)
		return WithCircuitBreaker(client, DefaultBreakerConfig(), logger), nil
	default:
		return nil, fmt.Errorf("unknown AI provider specified: %s", cfg.Provider)
	}
}
