package services

import (
	"context"
	"fmt"

	"versehub/config"
	"versehub/internal/battle"
)

// NewGenerator builds the verse backend selected by the configuration.
// OpenAI is the default and the only backend with incremental delivery.
func NewGenerator(ctx context.Context, cfg *config.Config) (battle.Generator, error) {
	switch cfg.Battle.Backend {
	case "", config.BackendOpenAI:
		return NewOpenAIGenerator(cfg.Openai.ApiKey, cfg.Openai.Model), nil
	case config.BackendGemini:
		return NewGeminiGenerator(ctx, cfg.Gemini.ApiKey, cfg.Gemini.Model)
	default:
		return nil, fmt.Errorf("unknown battle backend %q", cfg.Battle.Backend)
	}
}
