package services

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/jwebster45206/backchannel/pkg/chat"
)

const (
	DefaultGeminiTemperature     = 0.7
	DefaultGeminiTopP            = 0.95
	DefaultGeminiTopK            = 40
	DefaultGeminiMaxOutputTokens = 150
)

// GeminiService implements LLMService using the Gemini API.
type GeminiService struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ LLMService = (*GeminiService)(nil)

// NewGeminiService creates a Gemini-backed LLM service.
func NewGeminiService(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (g *GeminiService) GenerateReply(ctx context.Context, messages []chat.Message) (string, error) {
	system, conversation := splitMessages(messages)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(DefaultGeminiTemperature)),
		TopP:            genai.Ptr(float32(DefaultGeminiTopP)),
		TopK:            genai.Ptr(float32(DefaultGeminiTopK)),
		MaxOutputTokens: DefaultGeminiMaxOutputTokens,
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, toGeminiContents(conversation), config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	g.logger.Debug("Gemini reply generated", "model", g.model, "length", len(text))
	return text, nil
}

// toGeminiContents maps provider-neutral messages onto the Gemini content
// roles ("assistant" becomes "model").
func toGeminiContents(messages []chat.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		var role genai.Role = genai.RoleUser
		if msg.Role == chat.RoleAgent {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}
