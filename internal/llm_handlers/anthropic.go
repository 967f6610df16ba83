package llmHandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultClaudeVertexModel = "claude-sonnet-4-5@20250929"

// VertexAnthropicClient calls Claude through Vertex AI rawPredict.
type VertexAnthropicClient struct {
	httpClient *http.Client
	endpoint   string
	MaxTokens  int
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	StopReason string               `json:"stop_reason"`
	Content    []claudeContentBlock `json:"content"`
}

func NewVertexAnthropicClient(ctx context.Context, cfg Config) (*VertexAnthropicClient, error) {
	if len(cfg.Credentials) == 0 {
		return nil, fmt.Errorf("GCP_SERVICE_ACCOUNT_CREDENTIALS not set")
	}
	creds, err := google.CredentialsFromJSON(ctx, cfg.Credentials, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, fmt.Errorf("CredentialsFromJSON: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultClaudeVertexModel
	}
	endpoint := fmt.Sprintf(
		"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/anthropic/models/%s:rawPredict",
		cfg.Region, cfg.ProjectID, cfg.Region, model,
	)

	return newVertexAnthropicClient(oauth2.NewClient(ctx, creds.TokenSource), endpoint), nil
}

func newVertexAnthropicClient(httpClient *http.Client, endpoint string) *VertexAnthropicClient {
	return &VertexAnthropicClient{httpClient: httpClient, endpoint: endpoint, MaxTokens: 1024}
}

func (c *VertexAnthropicClient) Chat(ctx context.Context, systemMessage string, messages []Message) (string, error) {
	msgs := make([]map[string]interface{}, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, map[string]interface{}{
			"role":    string(m.Role),
			"content": m.Content,
		})
	}

	body := map[string]interface{}{
		"anthropic_version": "vertex-2023-10-16",
		"messages":          msgs,
		"max_tokens":        c.MaxTokens,
		"stream":            false,
	}
	if systemMessage != "" {
		body["system"] = systemMessage
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		return "", fmt.Errorf("vertex error %d: %s", resp.StatusCode, buf.String())
	}

	var cr claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	texts := []string{}
	for _, block := range cr.Content {
		if block.Type == "text" && block.Text != "" {
			texts = append(texts, block.Text)
		}
	}
	if len(texts) == 0 {
		return NoOutput, nil
	}
	return strings.Join(texts, "\n\n"), nil
}
