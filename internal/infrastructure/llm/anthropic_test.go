package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EdTechDigest/internal/config"
	"EdTechDigest/internal/ports"
)

func testConfig(baseURL string) config.AnthropicConfig {
	return config.AnthropicConfig{
		APIKey:    "sk-test",
		BaseURL:   baseURL,
		Model:     "claude-test",
		MaxTokens: 1500,
		Timeout:   5 * time.Second,
	}
}

func messageJSON(text string) string {
	body, _ := json.Marshal(map[string]any{
		"id":    "msg_test",
		"type":  "message",
		"role":  "assistant",
		"model": "claude-test",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
	})
	return string(body)
}

func TestCompleteSendsPromptAndReturnsText(t *testing.T) {
	t.Parallel()

	var (
		gotPath string
		gotKey  string
		gotBody map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, messageJSON("  A narrative digest.  "))
	}))
	defer server.Close()

	client := NewAnthropicClient(testConfig(server.URL), server.Client())
	out, err := client.Complete(context.Background(), ports.Completion{
		System:    "You are an analyst.",
		Prompt:    "Summarize these.",
		MaxTokens: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, "A narrative digest.", out)
	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "sk-test", gotKey)
	assert.Equal(t, "claude-test", gotBody["model"])
	assert.EqualValues(t, 50, gotBody["max_tokens"])
	assert.NotNil(t, gotBody["system"])
}

func TestCompleteAuthenticationError(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer server.Close()

	client := NewAnthropicClient(testConfig(server.URL), server.Client())
	_, err := client.Complete(context.Background(), ports.Completion{Prompt: "hi"})

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, calls, "no retries")
}

func TestCompleteEmptyResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, messageJSON("   "))
	}))
	defer server.Close()

	client := NewAnthropicClient(testConfig(server.URL), server.Client())
	_, err := client.Complete(context.Background(), ports.Completion{Prompt: "hi"})

	require.ErrorIs(t, err, ErrEmptyCompletion)
}
