package llmHandlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"google.golang.org/genai"
)

// GenaiGeminiClient implements Client for Gemini via Google AI API
type GenaiGeminiClient struct {
	client  *genai.Client
	modelID string

	Temperature float32
	MaxTokens   int32
}

func NewGenaiGeminiClient(ctx context.Context, apiKey, modelID string) (*GenaiGeminiClient, error) {
	if apiKey == "" || modelID == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY and GEMINI_MODEL_ID must be set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &GenaiGeminiClient{
		client:      client,
		modelID:     modelID,
		Temperature: 0.7,
		MaxTokens:   1024,
	}, nil
}

// toGenaiContents drops system messages; Gemini takes those as the system
// instruction instead.
func toGenaiContents(messages []Message) []*genai.Content {
	contents := []*genai.Content{}
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			continue
		}
		// Map role: "assistant" -> "model", "user" -> "user"
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}

func (v *GenaiGeminiClient) Chat(ctx context.Context, systemMessage string, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature:     &v.Temperature,
		MaxOutputTokens: v.MaxTokens,
	}
	if systemMessage != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemMessage}},
		}
	}

	resp, err := v.client.Models.GenerateContent(ctx, v.modelID, toGenaiContents(messages), genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini GenerateContent: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	if sb.Len() == 0 {
		return NoOutput, nil
	}
	return sb.String(), nil
}
