package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sahaya/app/config"

	"github.com/sashabaranov/go-openai"
)

const openAITimeout = 15 * time.Second

var errNoCompletion = errors.New("no chat completion found")

// openAIProvider is the optional terminal provider appended after the gemini
// chain, backed by any OpenAI-compatible endpoint.
type openAIProvider struct {
	client *openai.Client
	model  string
}

func newOpenAIProvider(cfg config.OpenAI) *openAIProvider {
	clientConfig := openai.DefaultConfig(cfg.Token)

	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: openAITimeout,
	}

	return &openAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

func (p *openAIProvider) Name() string {
	return p.model
}

func (p *openAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, openAITimeout)
	defer cancel()

	aiResponse, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: p.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxCompletionTokens: 500,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", errNoCompletion
	}

	result := strings.TrimSpace(aiResponse.Choices[0].Message.Content)
	if result == "" {
		return "", errNoCompletion
	}

	return result, nil
}
