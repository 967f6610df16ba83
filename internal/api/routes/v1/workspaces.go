package v1

import (
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/onboarding"
	"github.com/SahilDudhatWork/Synthia.AI/internal/handlers"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func registerWorkspaces(r fiber.Router, db *gorm.DB) {
	workspaceRepo := repo.NewWorkspaceRepository(db)
	wizard := onboarding.NewWizard(workspaceRepo, repo.NewAIModelRepository(db))
	h := handlers.NewWorkspaceHandler(workspaceRepo, wizard)

	r.Post("/workspaces", h.CreateWorkspace)
	r.Get("/workspaces", h.GetWorkspace)
	r.Post("/workspaces/steps/:step", h.SubmitStep)
	r.Get("/users/:userId/workspaces", h.ListUserWorkspaces)
}
