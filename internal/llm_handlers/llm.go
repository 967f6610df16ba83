package llmHandlers

import (
	"context"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"
)

// NoOutput is returned when a provider answers with an empty completion.
const NoOutput = "No output."

type Message struct {
	Role    models.Role
	Content string
}

type Client interface {
	Chat(ctx context.Context, systemMessage string, messages []Message) (string, error)
}
