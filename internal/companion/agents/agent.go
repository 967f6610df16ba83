package agents

import (
	"context"
	"fmt"

	"github.com/SahilDudhatWork/Synthia.AI/internal/config"
	"github.com/SahilDudhatWork/Synthia.AI/internal/libraries"
	llmHandlers "github.com/SahilDudhatWork/Synthia.AI/internal/llm_handlers"
	"github.com/SahilDudhatWork/Synthia.AI/internal/models"
)

type Agent struct {
	llmClient llmHandlers.Client
}

func NewAgent(llmClient llmHandlers.Client) *Agent {
	return &Agent{llmClient: llmClient}
}

// LLMConfig maps the configured provider onto a completion client config.
func LLMConfig(cfg config.Config) (llmHandlers.Config, error) {
	switch llmHandlers.Provider(cfg.LLMProvider) {
	case llmHandlers.ProviderOpenAI, "":
		return llmHandlers.Config{
			Provider: llmHandlers.ProviderOpenAI,
			Model:    cfg.OpenAIModel,
			APIKey:   cfg.OpenAIAPIKey,
		}, nil

	case llmHandlers.ProviderGroq:
		return llmHandlers.Config{
			Provider: llmHandlers.ProviderGroq,
			Model:    cfg.GroqModel,
			BaseURL:  cfg.GroqBaseURL,
			APIKey:   cfg.GroqAPIKey,
		}, nil

	case llmHandlers.ProviderGemini:
		return llmHandlers.Config{
			Provider: llmHandlers.ProviderGemini,
			Model:    cfg.GeminiModelID,
			APIKey:   cfg.GeminiAPIKey,
		}, nil

	case llmHandlers.ProviderVertexAnthropic:
		creds, err := libraries.DecodeCredentials(cfg.GCPCredentials)
		if err != nil {
			return llmHandlers.Config{}, err
		}
		return llmHandlers.Config{
			Provider:    llmHandlers.ProviderVertexAnthropic,
			ProjectID:   cfg.GCPProjectID,
			Region:      cfg.VertexRegion,
			Credentials: creds,
		}, nil

	default:
		return llmHandlers.Config{}, fmt.Errorf("unknown provider: %s. Valid options: openai, groq, gemini, vertex_anthropic", cfg.LLMProvider)
	}
}

// NewAgentFromConfig builds the agent for the configured provider.
func NewAgentFromConfig(ctx context.Context, cfg config.Config) (*Agent, error) {
	llmCfg, err := LLMConfig(cfg)
	if err != nil {
		return nil, err
	}
	llmClient, err := llmHandlers.New(ctx, llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client (%s): %w", llmCfg.Provider, err)
	}
	return NewAgent(llmClient), nil
}

// ProcessRequest sends one system message and one user message, nothing else.
func (a *Agent) ProcessRequest(ctx context.Context, systemMessage string, message string) (string, error) {
	messages := []llmHandlers.Message{
		{Role: models.RoleUser, Content: message},
	}

	response, err := a.llmClient.Chat(ctx, systemMessage, messages)
	if err != nil {
		return "", fmt.Errorf("LLM chat error: %w", err)
	}
	return response, nil
}
