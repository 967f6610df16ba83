package handlers

import (
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/onboarding"
	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"
	"github.com/SahilDudhatWork/Synthia.AI/internal/models"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AIModelHandler struct {
	repo   repo.AIModelRepoInterface
	wizard *onboarding.Wizard
}

func NewAIModelHandler(repo repo.AIModelRepoInterface, wizard *onboarding.Wizard) *AIModelHandler {
	return &AIModelHandler{repo: repo, wizard: wizard}
}

func (h *AIModelHandler) CreateAIModel(c *fiber.Ctx) error {
	var dto struct {
		WorkspaceID    string               `json:"workspace_id"`
		Name           string               `json:"name"`
		Role           string               `json:"role"`
		Personality    string               `json:"personality"`
		Predefined     bool                 `json:"predefined"`
		Topics         []string             `json:"topics"`
		SystemPrompt   string               `json:"system_prompt"`
		CustomTriggers []string             `json:"custom_triggers"`
		Config         models.AIModelConfig `json:"config"`
		IsActive       *bool                `json:"is_active"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if dto.Name == "" || dto.Role == "" || dto.Personality == "" {
		return badRequest(c, "Name, role, and personality are required")
	}

	workspaceID, err := parseID(dto.WorkspaceID)
	if err != nil {
		return badRequest(c, "Invalid workspace")
	}

	model := &models.AIModel{
		Name:           dto.Name,
		Role:           dto.Role,
		Personality:    dto.Personality,
		Predefined:     dto.Predefined,
		Topics:         datatypes.JSONSlice[string](nonNil(dto.Topics)),
		SystemPrompt:   dto.SystemPrompt,
		CustomTriggers: datatypes.JSONSlice[string](nonNil(dto.CustomTriggers)),
		Config:         datatypes.NewJSONType(dto.Config),
		IsActive:       dto.IsActive == nil || *dto.IsActive,
	}
	if workspaceID != uuid.Nil {
		model.WorkspaceID = &workspaceID
	}

	if err := h.repo.Create(model); err != nil {
		logger.Log.WithError(err).Error("Error creating ai model")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(model)
}

// ListAIModels returns the personas visible to a workspace.
func (h *AIModelHandler) ListAIModels(c *fiber.Ctx) error {
	workspaceID, err := uuid.Parse(c.Query("workspaceId"))
	if err != nil {
		return badRequest(c, "Invalid workspace ID")
	}

	list, err := h.repo.ListForWorkspace(workspaceID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"models": list,
	})
}

func (h *AIModelHandler) GetAIModel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid AI model ID")
	}
	workspaceID, err := parseID(c.Query("workspaceId"))
	if err != nil {
		return badRequest(c, "Invalid workspace ID")
	}

	model, err := h.repo.Resolve(id, workspaceID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(model)
}

func (h *AIModelHandler) ListDefaultModels(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"models": onboarding.DefaultPersonas,
	})
}

// CompleteAIModel finishes the persona creation wizard.
func (h *AIModelHandler) CompleteAIModel(c *fiber.Ctx) error {
	var dto struct {
		WorkspaceID string `json:"workspaceId"`
		onboarding.ModelDraft
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	workspaceID, err := parseID(dto.WorkspaceID)
	if err != nil {
		return badRequest(c, "Invalid workspace ID")
	}

	model, err := h.wizard.CompleteModel(workspaceID, dto.ModelDraft)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(model)
}

func (h *AIModelHandler) UseDefaultModel(c *fiber.Ctx) error {
	var dto struct {
		WorkspaceID string `json:"workspaceId"`
		Model       string `json:"model"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	workspaceID, err := parseID(dto.WorkspaceID)
	if err != nil {
		return badRequest(c, "Invalid workspace ID")
	}

	model, err := h.wizard.UseDefaultModel(workspaceID, dto.Model)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(model)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
