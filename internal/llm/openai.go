package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// OpenAIClient calls the /chat/completions endpoint of an OpenAI-compatible API.
type OpenAIClient struct {
	baseURL      string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

// NewOpenAIClient creates a client. A nil httpClient uses http.DefaultClient;
// per-call deadlines come from the request context.
func NewOpenAIClient(config *Config, apiKey string, httpClient *http.Client) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg := config.withDefaults()
	return &OpenAIClient{
		baseURL:      cfg.BaseURL,
		apiKey:       apiKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient:   httpClient,
	}, nil
}

// chatRequest mirrors the OpenAI /v1/chat/completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse mirrors the relevant fields of the OpenAI response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Call sends prompt as the user message and returns the first choice.
func (c *OpenAIClient) Call(ctx context.Context, prompt string, settings types.AISettings) (*Completion, error) {
	reqBody := chatRequest{
		Model: settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ProviderOpenAI, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ProviderOpenAI, fmt.Errorf("read llm response: %w", err))
	}

	var chatResp chatResponse
	decodeErr := json.Unmarshal(respBytes, &chatResp)

	if resp.StatusCode != http.StatusOK {
		msg := string(respBytes)
		if decodeErr == nil && chatResp.Error != nil {
			msg = chatResp.Error.Message
		}
		return nil, &APIError{
			Provider:   ProviderOpenAI,
			StatusCode: resp.StatusCode,
			Message:    msg,
			Retryable:  retryableStatus(resp.StatusCode),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if decodeErr != nil {
		return nil, &APIError{Provider: ProviderOpenAI, Message: "malformed response body", Cause: decodeErr}
	}
	if chatResp.Error != nil {
		return nil, &APIError{Provider: ProviderOpenAI, Message: fmt.Sprintf("%s: %s", chatResp.Error.Type, chatResp.Error.Message)}
	}
	if len(chatResp.Choices) == 0 {
		return nil, &APIError{Provider: ProviderOpenAI, Message: "no choices in response"}
	}

	return &Completion{
		Text:         chatResp.Choices[0].Message.Content,
		InputTokens:  chatResp.Usage.PromptTokens,
		OutputTokens: chatResp.Usage.CompletionTokens,
		Model:        settings.Model,
		FinishReason: chatResp.Choices[0].FinishReason,
	}, nil
}

// Close is a no-op; the HTTP client is shared.
func (c *OpenAIClient) Close() error {
	return nil
}

// parseRetryAfter reads the delay-seconds form of Retry-After.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
