package handlers

import (
	"context"

	"github.com/SahilDudhatWork/Synthia.AI/internal/auth"
	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Completion answers a prompt as a persona. *workflow.Workflow satisfies it.
type Completion interface {
	Complete(ctx context.Context, workspaceID, aiModelID uuid.UUID, systemPrompt, prompt string) (string, error)
}

type AIHandler struct {
	completion Completion
}

func NewAIHandler(completion Completion) *AIHandler {
	return &AIHandler{completion: completion}
}

func (h *AIHandler) Generate(c *fiber.Ctx) error {
	var dto struct {
		Prompt       string `json:"prompt"`
		UserID       string `json:"userId"`
		WorkspaceID  string `json:"workspaceId"`
		AIModelID    string `json:"ai_model_id"`
		LegacyModel  string `json:"AIModelId"`
		SystemPrompt string `json:"system_prompt"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Prompt == "" {
		return badRequest(c, "Prompt cannot be empty")
	}
	if err := auth.CheckUser(c, dto.UserID); err != nil {
		return err
	}

	workspaceID, err := parseID(dto.WorkspaceID)
	if err != nil {
		return badRequest(c, "Invalid workspace ID")
	}
	if dto.AIModelID == "" {
		dto.AIModelID = dto.LegacyModel
	}
	aiModelID, err := parseID(dto.AIModelID)
	if err != nil {
		return badRequest(c, "Invalid AI model ID")
	}

	result, err := h.completion.Complete(c.UserContext(), workspaceID, aiModelID, dto.SystemPrompt, dto.Prompt)
	if err != nil {
		logger.Log.WithError(err).Error("Error processing request")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Internal server error",
			"details": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"type":   "text",
		"result": result,
	})
}
