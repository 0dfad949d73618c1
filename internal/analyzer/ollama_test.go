package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewOllamaAnalyzer_Validation requires base URL and model.
func TestNewOllamaAnalyzer_Validation(t *testing.T) {
	_, err := NewOllamaAnalyzer("", "llama3")
	assert.Error(t, err)

	_, err = NewOllamaAnalyzer("http://localhost:11434", "")
	assert.Error(t, err)

	a, err := NewOllamaAnalyzer("http://localhost:11434/", "llama3")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", a.baseURL, "trailing slash trimmed")
}

// TestOllamaAnalyzer_Analyze verifies the chat request shape and the
// content passthrough.
func TestOllamaAnalyzer_Analyze(t *testing.T) {
	var captured ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaChatMessage{Role: "assistant", Content: `{"score": 2}`},
			Done:    true,
		})
	}))
	defer srv.Close()

	a, err := NewOllamaAnalyzer(srv.URL, "llama3")
	require.NoError(t, err)

	out, err := a.Analyze(context.Background(), NewRequest("some text"))
	require.NoError(t, err)
	assert.Equal(t, `{"score": 2}`, out)

	assert.Equal(t, "llama3", captured.Model)
	assert.False(t, captured.Stream)
	assert.Equal(t, "json", captured.Format)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, Instruction)
	assert.Contains(t, captured.Messages[0].Content, ResultSchema)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "some text", captured.Messages[1].Content)
}

// TestOllamaAnalyzer_ServerError surfaces non-OK statuses as errors.
func TestOllamaAnalyzer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	a, err := NewOllamaAnalyzer(srv.URL, "llama3")
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), NewRequest("some text"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

// TestOllamaAnalyzer_Unreachable surfaces transport failures.
func TestOllamaAnalyzer_Unreachable(t *testing.T) {
	a, err := NewOllamaAnalyzer("http://127.0.0.1:1", "llama3")
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), NewRequest("some text"))
	assert.Error(t, err)
}

// TestNewOpenAIAnalyzer_RequiresKey rejects an empty API key.
func TestNewOpenAIAnalyzer_RequiresKey(t *testing.T) {
	_, err := NewOpenAIAnalyzer("", "gpt-4o-mini", "")
	assert.Error(t, err)
}

// TestNewRequest binds the raw text to the fixed contract.
func TestNewRequest(t *testing.T) {
	req := NewRequest("  raw text  ")
	assert.Equal(t, "  raw text  ", req.Text)
	assert.Equal(t, Instruction, req.Instruction)
	assert.Equal(t, ResultSchema, req.Schema)

	// The schema must name every required field.
	for _, field := range []string{"score", "risk_level", "identified_codes", "explanation", "translated_text"} {
		assert.Contains(t, ResultSchema, field)
	}
}
