package v1

import (
	"github.com/SahilDudhatWork/Synthia.AI/internal/handlers"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func registerUsers(r fiber.Router, db *gorm.DB, svc Services) {
	h := handlers.NewUserHandler(
		repo.NewUserRepository(db),
		repo.NewAppUserRepository(db),
		svc.Passwords,
		svc.Checkout,
	)

	r.Get("/users/:userId", h.GetUser)
	r.Put("/users/:userId", h.UpdateUser)
	r.Post("/create-user-password", h.CreateUserPassword)
	r.Get("/checkout-session", h.CheckoutSession)
}
