// Package llm provides the model-call capability used by the generator.
// Providers are reached through the Caller interface so the pipeline never
// depends on a concrete SDK.
package llm

import (
	"fmt"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI chat-completions API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultSystemPrompt frames every request.
const DefaultSystemPrompt = "You are an expert interview coach."

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// Config holds the provider configuration for the application
type Config struct {
	Provider     Provider
	BaseURL      string // OpenAI only
	SystemPrompt string
}

// DefaultConfig returns the default configuration (OpenAI)
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderOpenAI,
		BaseURL:      defaultOpenAIBaseURL,
		SystemPrompt: DefaultSystemPrompt,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:     ProviderGemini,
		SystemPrompt: DefaultSystemPrompt,
	}
}

// DefaultModel returns the model used when a request names none.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return "gpt-4o"
	}
}

// APIKeyEnv names the environment variable holding the provider's key.
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// ParseProvider converts a config or flag value to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderOpenAI, "":
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown provider %q", s)
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.Provider == "" {
		out.Provider = ProviderOpenAI
	}
	if out.BaseURL == "" {
		out.BaseURL = defaultOpenAIBaseURL
	}
	out.BaseURL = strings.TrimRight(out.BaseURL, "/")
	if out.SystemPrompt == "" {
		out.SystemPrompt = DefaultSystemPrompt
	}
	return &out
}
