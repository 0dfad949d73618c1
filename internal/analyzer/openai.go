package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

// NewOpenAIAnalyzer creates an analyzer backed by the OpenAI chat API.
// The caller resolves the API key; this constructor never reads the
// environment itself.
func NewOpenAIAnalyzer(apiKey, model, baseURL string) (*OpenAIAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is empty")
	}
	if model == "" {
		model = openai.GPT4oMini
		slog.Warn("no analyzer model configured, defaulting", "model", model)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	slog.Info("Initializing OpenAI analyzer", "model", model)
	return &OpenAIAnalyzer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Analyze implements the Analyzer interface.
func (o *OpenAIAnalyzer) Analyze(ctx context.Context, req Request) (string, error) {
	slog.Debug("Analyzing text via OpenAI", "model", o.model)

	system := req.Instruction + "\n\nOutput schema:\n" + req.Schema
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		slog.Error("OpenAI API call failed", "error", err)
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("OpenAI returned no choices")
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	slog.Debug("Received analyzer response", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
