package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TextGenerator is a chat-style generation call: prompt in, free text
// out. Calls are synchronous and never retried; failures surface
// immediately to the caller.
type TextGenerator interface {
	Chat(prompt string) (string, error)
}

// OpenAIClient talks to OpenAI-compatible chat and image endpoints.
type OpenAIClient struct {
	baseURL      string
	apiKey       string
	model        string
	imageModel   string
	imageSize    string
	imageQuality string
	httpClient   *http.Client
}

var _ TextGenerator = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg OpenAISettings) *OpenAIClient {
	return &OpenAIClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		imageModel:   cfg.ImageModel,
		imageSize:    cfg.ImageSize,
		imageQuality: cfg.ImageQuality,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Chat sends a single user-role prompt and returns the completion text.
func (c *OpenAIClient) Chat(prompt string) (string, error) {
	body := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post("/chat/completions", body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}

// GenerateImage requests one image and returns the retrievable URL.
func (c *OpenAIClient) GenerateImage(prompt string) (string, error) {
	body := map[string]any{
		"model":           c.imageModel,
		"prompt":          prompt,
		"size":            c.imageSize,
		"quality":         c.imageQuality,
		"n":               1,
		"response_format": "url",
	}

	var result struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := c.post("/images/generations", body, &result); err != nil {
		return "", err
	}

	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", fmt.Errorf("openai: no image url in response")
	}
	return result.Data[0].URL, nil
}

func (c *OpenAIClient) post(path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("openai: marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("openai: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("openai: %s %s: %s", path, resp.Status, strings.TrimSpace(string(errBody)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openai: decode response: %w", err)
	}
	return nil
}
