package main

import (
	"fmt"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// AnthropicClient is the alternate text provider. Image generation is
// not available through it; the image pipeline stays on OpenAI.
type AnthropicClient struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

var _ TextGenerator = (*AnthropicClient)(nil)

// NewAnthropicClient builds a client from configuration.
func NewAnthropicClient(cfg AnthropicSettings) *AnthropicClient {
	return &AnthropicClient{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Chat sends a single user-role prompt and returns the completion text.
func (c *AnthropicClient) Chat(prompt string) (string, error) {
	settings := types.RequestSettings{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	response, err := anthropic.PromptWithSettings("", prompt, "", c.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("anthropic: no content in response")
	}
	return response.Content[0].Text, nil
}
