package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// Completion is the text and token usage of one model call.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Caller issues a single model call. Implementations return *APIError for
// provider failures so callers can tell transient from fatal errors.
type Caller interface {
	Call(ctx context.Context, prompt string, settings types.AISettings) (*Completion, error)
}

// Client is a Caller that holds provider resources.
type Client interface {
	Caller
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderOpenAI, "":
		return NewOpenAIClient(config, apiKey, nil)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config.withDefaults(),
	}, nil
}

// Call generates content with the model and sampling settings of the request.
func (c *GeminiClient) Call(ctx context.Context, prompt string, settings types.AISettings) (*Completion, error) {
	model := c.client.GenerativeModel(settings.Model)
	model.SetTemperature(float32(settings.Temperature))
	model.SetMaxOutputTokens(int32(settings.MaxTokens))
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(c.config.SystemPrompt)}}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, &APIError{Provider: ProviderGemini, Message: "unusable response", Cause: err}
	}

	out := &Completion{
		Text:         text,
		Model:        settings.Model,
		FinishReason: resp.Candidates[0].FinishReason.String(),
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func classifyGeminiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &APIError{
			Provider:   ProviderGemini,
			StatusCode: gerr.Code,
			Message:    gerr.Message,
			Retryable:  retryableStatus(gerr.Code),
			Cause:      err,
		}
	}
	return transportError(ProviderGemini, err)
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
