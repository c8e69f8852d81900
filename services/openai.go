package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"versehub/internal/battle"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// verseTemperature keeps the verses loose enough to surprise.
const verseTemperature = 0.8

// OpenAIGenerator produces verses through the OpenAI chat completion API,
// with incremental delta delivery while a verse streams in.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIGenerator{client: openai.NewClient(apiKey), model: model}
}

func (g *OpenAIGenerator) messages(history []battle.Message) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case battle.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case battle.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return messages
}

func (g *OpenAIGenerator) Generate(ctx context.Context, history []battle.Message) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: verseTemperature,
		Messages:    g.messages(history),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai completion: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (g *OpenAIGenerator) GenerateStream(ctx context.Context, history []battle.Message, onDelta func(delta string)) (string, error) {
	stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: verseTemperature,
		Messages:    g.messages(history),
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("openai stream: %w", err)
	}
	defer stream.Close()

	var verse strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("openai stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		verse.WriteString(delta)
		onDelta(delta)
	}

	// No trimming here: partial deltas were already relayed verbatim, and
	// the final verse must match their concatenation exactly.
	return verse.String(), nil
}
