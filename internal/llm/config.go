package llm

import "time"

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Config selects and configures the provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL points the openai provider at a compatible API such as a
	// local Ollama or vLLM server.
	BaseURL string
	// Timeout bounds a single request. Zero means no limit beyond the caller's context.
	Timeout time.Duration
}

// DefaultModels is used when Config.Model is empty.
var DefaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-haiku",
	ProviderGemini:    "gemini-flash",
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
