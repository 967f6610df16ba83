package llmHandlers

import (
	"context"
	"fmt"
)

type Provider string

const (
	ProviderOpenAI          Provider = "openai"
	ProviderGroq            Provider = "groq"
	ProviderGemini          Provider = "gemini"
	ProviderVertexAnthropic Provider = "vertex_anthropic"
)

type Config struct {
	Provider Provider
	Model    string
	BaseURL  string
	APIKey   string

	// Vertex only
	ProjectID   string
	Region      string
	Credentials []byte // service account JSON
}

func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		model := cfg.Model
		if model == "" {
			model = "gpt-4.1"
		}
		return NewLangChainClient(LangChainConfig{Model: model, APIKey: cfg.APIKey})
	case ProviderGroq:
		return NewLangChainClient(LangChainConfig{Model: cfg.Model, BaseURL: cfg.BaseURL, APIKey: cfg.APIKey})
	case ProviderGemini:
		return NewGenaiGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case ProviderVertexAnthropic:
		return NewVertexAnthropicClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown provider %s", cfg.Provider)
	}
}
