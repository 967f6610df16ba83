package v1

import (
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/onboarding"
	"github.com/SahilDudhatWork/Synthia.AI/internal/handlers"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func registerAIModels(r fiber.Router, db *gorm.DB) {
	aiModelRepo := repo.NewAIModelRepository(db)
	wizard := onboarding.NewWizard(repo.NewWorkspaceRepository(db), aiModelRepo)
	h := handlers.NewAIModelHandler(aiModelRepo, wizard)

	r.Post("/ai-models", h.CreateAIModel)
	r.Get("/ai-models", h.ListAIModels)
	r.Get("/ai-models/defaults", h.ListDefaultModels)
	r.Get("/ai-models/:id", h.GetAIModel)
	r.Post("/ai-models/complete", h.CompleteAIModel)
	r.Post("/ai-models/default", h.UseDefaultModel)
}
