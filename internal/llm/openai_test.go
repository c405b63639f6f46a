package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

func testSettings() types.AISettings {
	return types.AISettings{Model: "gpt-4o", Temperature: 0.7, MaxTokens: 500, Timeout: 5 * time.Second}
}

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClient(&Config{Provider: ProviderOpenAI, BaseURL: srv.URL}, "test-key", srv.Client())
	require.NoError(t, err)
	return client
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(nil, "", nil)
	assert.Error(t, err)
}

func TestOpenAIClient_Call_Success(t *testing.T) {
	var got chatRequest
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gpt-4o-2024-08-06",
			"choices": [{"message": {"content": "1. What is a goroutine?"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 45}
		}`))
	})

	out, err := client.Call(context.Background(), "Generate questions", testSettings())
	require.NoError(t, err)

	assert.Equal(t, "1. What is a goroutine?", out.Text)
	assert.Equal(t, 120, out.InputTokens)
	assert.Equal(t, 45, out.OutputTokens)
	assert.Equal(t, "gpt-4o", out.Model)
	assert.Equal(t, "stop", out.FinishReason)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, DefaultSystemPrompt, got.Messages[0].Content)
	assert.Equal(t, "Generate questions", got.Messages[1].Content)
	assert.Equal(t, 500, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
}

func TestOpenAIClient_Call_RateLimited(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down", "type": "rate_limit"}}`))
	})

	_, err := client.Call(context.Background(), "p", testSettings())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "slow down", apiErr.Message)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 3*time.Second, RetryAfter(err))
}

func TestOpenAIClient_Call_BadRequest(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid model", "type": "invalid_request_error"}}`))
	})

	_, err := client.Call(context.Background(), "p", testSettings())
	require.Error(t, err)
	assert.False(t, IsTransient(err))
	assert.Contains(t, err.Error(), "HTTP 400")
}

func TestOpenAIClient_Call_NoChoices(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := client.Call(context.Background(), "p", testSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
	assert.False(t, IsTransient(err))
}

func TestOpenAIClient_Call_ServerErrorIsTransient(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	_, err := client.Call(context.Background(), "p", testSettings())
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Zero(t, RetryAfter(err))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 10*time.Second, parseRetryAfter("10"))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("-1"))
	assert.Zero(t, parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}
