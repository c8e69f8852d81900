package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"versehub/internal/battle"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator produces verses through the Gemini API. It does not
// implement battle.StreamingGenerator, so battles served by it only emit
// final events.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	config := &genai.ClientConfig{}
	if apiKey != "" {
		config.APIKey = apiKey
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// flattenHistory folds the conditioning log into a single prompt; Gemini
// is driven with one text block per request rather than a role-tagged
// message list.
func flattenHistory(history []battle.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(msg.Content)
	}
	return sb.String()
}

func (g *GeminiGenerator) Generate(ctx context.Context, history []battle.Message) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini client not initialized")
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(flattenHistory(history)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generation: %w", err)
	}
	return cleanModelOutput(resp.Text()), nil
}

func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
