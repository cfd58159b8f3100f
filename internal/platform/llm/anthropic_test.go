package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicServer(t *testing.T, status int, body map[string]any, seen *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			b, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(b, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func message(content ...map[string]any) map[string]any {
	return map[string]any{
		"id":          "msg_test123",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-3-5-haiku-latest",
		"stop_reason": "tool_use",
		"content":     content,
		"usage":       map[string]any{"input_tokens": 42, "output_tokens": 17},
	}
}

func TestAnthropic_ToolUseOutput(t *testing.T) {
	var req map[string]any
	server := anthropicServer(t, http.StatusOK, message(map[string]any{
		"type":  "tool_use",
		"id":    "toolu_1",
		"name":  "score_result",
		"input": map[string]any{"label": "flu", "score": 0.7},
	}), &req)

	p := NewAnthropic(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	raw, err := p.Generate(context.Background(), testSchema(t), "classify this")
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"flu","score":0.7}`, string(raw))

	tools, ok := req["tools"].([]any)
	require.True(t, ok, "request should declare tools")
	require.Len(t, tools, 1)
	tool := tools[0].(map[string]any)
	assert.Equal(t, "score_result", tool["name"])

	choice := req["tool_choice"].(map[string]any)
	assert.Equal(t, "tool", choice["type"])
	assert.Equal(t, "score_result", choice["name"])
	assert.Equal(t, DefaultAnthropicModel, req["model"])
}

func TestAnthropic_TextFallback(t *testing.T) {
	server := anthropicServer(t, http.StatusOK, message(map[string]any{
		"type": "text",
		"text": "```json\n{\"label\":\"cold\",\"score\":0.2}\n```",
	}), nil)

	p := NewAnthropic(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	raw, err := p.Generate(context.Background(), testSchema(t), "classify this")
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"cold","score":0.2}`, string(raw))
}

func TestAnthropic_ProseIsSchemaValidationError(t *testing.T) {
	server := anthropicServer(t, http.StatusOK, message(map[string]any{
		"type": "text",
		"text": "I'm not able to do that.",
	}), nil)

	p := NewAnthropic(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	_, err := p.Generate(context.Background(), testSchema(t), "classify this")
	require.Error(t, err)
	assert.True(t, IsSchemaValidationError(err))
}

func TestAnthropic_APIErrorIsProviderError(t *testing.T) {
	server := anthropicServer(t, http.StatusInternalServerError, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "api_error", "message": "overloaded"},
	}, nil)

	p := NewAnthropic(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	_, err := p.Generate(context.Background(), testSchema(t), "classify this")
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestAnthropic_UnreachableIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p := NewAnthropic(AnthropicConfig{APIKey: "test-key", BaseURL: url})
	_, err := p.Generate(context.Background(), testSchema(t), "classify this")
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestAnthropic_GenerateEndToEnd(t *testing.T) {
	server := anthropicServer(t, http.StatusOK, message(map[string]any{
		"type":  "tool_use",
		"id":    "toolu_2",
		"name":  "score_result",
		"input": map[string]any{"label": "flu", "score": 3},
	}), nil)

	p := NewAnthropic(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL, Model: "claude-test", MaxTokens: 256})
	_, err := Generate[scoreResult](context.Background(), p, testSchema(t), "classify this")
	require.Error(t, err)
	assert.True(t, IsSchemaValidationError(err), "score outside [0,1] must fail validation")
}
