package handlers

import (
	"errors"
	"strconv"

	"github.com/SahilDudhatWork/Synthia.AI/internal/auth"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/onboarding"
	"github.com/SahilDudhatWork/Synthia.AI/internal/models"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WorkspaceHandler struct {
	repo   repo.WorkspaceRepoInterface
	wizard *onboarding.Wizard
}

func NewWorkspaceHandler(repo repo.WorkspaceRepoInterface, wizard *onboarding.Wizard) *WorkspaceHandler {
	return &WorkspaceHandler{repo: repo, wizard: wizard}
}

func workspaceResponse(ws *models.Workspace) fiber.Map {
	current := 0
	if ws != nil {
		current = ws.CurrentStep
	}
	return fiber.Map{
		"workspace":    ws,
		"current_step": current,
		"resume_step":  onboarding.ResumeStep(ws),
	}
}

// CreateWorkspace is step one of onboarding without a workspace id.
func (h *WorkspaceHandler) CreateWorkspace(c *fiber.Ctx) error {
	var dto struct {
		UserID string `json:"userId"`
		Name   string `json:"name"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	userID, err := uuid.Parse(dto.UserID)
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	if err := auth.CheckUser(c, dto.UserID); err != nil {
		return err
	}

	ws, err := h.wizard.Submit(onboarding.StepName, onboarding.StepInput{UserID: userID, Name: dto.Name})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(workspaceResponse(ws))
}

// GetWorkspace looks a workspace up by workspaceId, else by userId. A user
// without a workspace gets a null workspace and resume_step 1.
func (h *WorkspaceHandler) GetWorkspace(c *fiber.Ctx) error {
	workspaceID, err := parseID(c.Query("workspaceId"))
	if err != nil {
		return badRequest(c, "Invalid workspace ID")
	}
	userID, err := parseID(c.Query("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	ws, err := h.repo.Get(repo.WorkspaceLookup{WorkspaceID: workspaceID, UserID: userID})
	if err != nil {
		if workspaceID == uuid.Nil && errors.Is(err, repo.ErrNotFound) {
			return c.Status(fiber.StatusOK).JSON(workspaceResponse(nil))
		}
		return respondError(c, err)
	}
	if err := auth.CheckUser(c, ws.UserID.String()); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(workspaceResponse(ws))
}

func (h *WorkspaceHandler) ListUserWorkspaces(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	if err := auth.CheckUser(c, userID.String()); err != nil {
		return err
	}

	workspaces, err := h.repo.ListByUser(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"workspaces": workspaces,
	})
}

// SubmitStep saves one onboarding step.
func (h *WorkspaceHandler) SubmitStep(c *fiber.Ctx) error {
	step, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return badRequest(c, "Invalid step")
	}

	var dto struct {
		UserID      string `json:"userId"`
		WorkspaceID string `json:"workspaceId"`
		onboarding.StepInput
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}

	in := dto.StepInput
	if in.UserID, err = parseID(dto.UserID); err != nil {
		return badRequest(c, "Invalid user ID")
	}
	if in.WorkspaceID, err = parseID(dto.WorkspaceID); err != nil {
		return badRequest(c, "Invalid workspace ID")
	}
	if err := auth.CheckUser(c, dto.UserID); err != nil {
		return err
	}

	ws, err := h.wizard.Submit(step, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(workspaceResponse(ws))
}
