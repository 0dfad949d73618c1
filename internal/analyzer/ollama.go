package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type OllamaAnalyzer struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// Ollama API request/response structures
type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Format   string              `json:"format,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

// NewOllamaAnalyzer creates an analyzer backed by a local Ollama server.
func NewOllamaAnalyzer(baseURL, model string) (*OllamaAnalyzer, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("ollama base URL is not set")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model is not set")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	slog.Info("Initializing Ollama analyzer", "base_url", baseURL, "model", model)
	return &OllamaAnalyzer{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    baseURL,
		model:      model,
	}, nil
}

// Analyze implements the Analyzer interface.
func (o *OllamaAnalyzer) Analyze(ctx context.Context, req Request) (string, error) {
	slog.Debug("Analyzing text via Ollama", "model", o.model)

	body, err := json.Marshal(ollamaChatRequest{
		Model: o.model,
		Messages: []ollamaChatMessage{
			{Role: "system", Content: req.Instruction + "\n\nOutput schema:\n" + req.Schema},
			{Role: "user", Content: req.Text},
		},
		Stream: false,
		// Constrains the model to emit a JSON object.
		Format: "json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		slog.Error("Ollama API call failed", "error", err)
		return "", fmt.Errorf("ollama API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Error("Ollama returned non-OK status", "status", resp.StatusCode)
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(errBody))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}
	slog.Debug("Received analyzer response", "done", chatResp.Done)
	return chatResp.Message.Content, nil
}
