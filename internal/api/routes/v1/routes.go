package v1

import (
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/workflow"
	"github.com/SahilDudhatWork/Synthia.AI/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Services are the external collaborators the routes need. Passwords and
// Checkout may be nil.
type Services struct {
	Agent     workflow.Completer
	Images    handlers.ImageStore
	Generator handlers.ImageGenerator
	Passwords handlers.PasswordSetter
	Checkout  handlers.CheckoutLookup
	JWTSecret string
}

func RegisterRoutes(r fiber.Router, db *gorm.DB, svc Services) {
	registerHealth(r)
	registerAIModels(r, db)
	registerImages(r, svc)
	registerChat(r, db, svc)
	registerWorkspaces(r, db)
	registerUsers(r, db, svc)
}

func registerHealth(r fiber.Router) {
	r.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	})
}
